package table

import (
	"cmp"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindTime
)

const dateLayout = "2006-01-02"

// Value is a nullable, typed table cell. The zero Value is null.
type Value struct {
	t    time.Time
	s    string
	f    float64
	i    int
	kind Kind
}

func Null() Value { return Value{} }

func StringValue(s string) Value { return Value{kind: KindString, s: s} }

func IntValue(i int) Value { return Value{kind: KindInt, i: i} }

// FloatValue stores f. NaN and infinities are stored as null.
func FloatValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{kind: KindFloat, f: f}
}

func TimeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }

// OptString returns a string value, or null when s is empty.
func OptString(s string) Value {
	if s == "" {
		return Value{}
	}
	return StringValue(s)
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) AsInt() (int, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat widens int values.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// String renders the value for display and grouping. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindTime:
		return v.t.Format(dateLayout)
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.s)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindTime:
		return json.Marshal(v.t.Format(dateLayout))
	}
	return []byte("null"), nil
}

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	return Compare(v, o) == 0 && v.kind == o.kind
}

// Compare orders values: null first, numbers numerically, then strings, then times.
func Compare(a, b Value) int {
	ra, rb := rank(a.kind), rank(b.kind)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindString:
		return cmp.Compare(a.s, b.s)
	case KindTime:
		return a.t.Compare(b.t)
	}
	af, _ := a.AsFloat()
	bf, _ := b.AsFloat()
	return cmp.Compare(af, bf)
}

func rank(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindInt, KindFloat:
		return 1
	case KindString:
		return 2
	}
	return 3
}

// CompareKeys compares two key tuples element by element.
func CompareKeys(a, b []Value) int {
	for i := range min(len(a), len(b)) {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}
