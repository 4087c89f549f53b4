// Package dataset loads the catalog CSV into a table, from a local file, a
// cached download or a remote fetch, in that order.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cesargomez89/netflix-insights/internal/constants"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

// CanonicalColumns is the schema of an empty table returned when no source
// could be read.
var CanonicalColumns = []string{
	constants.ColShowID,
	constants.ColType,
	constants.ColTitle,
	constants.ColDirector,
	constants.ColCast,
	constants.ColCountry,
	constants.ColDateAdded,
	constants.ColReleaseYear,
	constants.ColRating,
	constants.ColDuration,
	constants.ColListedIn,
	constants.ColDescription,
}

// NormalizeColumn trims, lower-cases and replaces spaces with underscores.
func NormalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

// Parsed is the result of reading one CSV document.
type Parsed struct {
	Table     *table.Table
	Columns   []string
	Malformed int
}

// errNoHeader is returned for an input with no header row.
var errNoHeader = errors.New("csv has no header row")

// ParseCSV reads a catalog CSV. Column names are normalized; release_year is
// parsed as an integer and a value that fails to parse becomes null and is
// counted as malformed. Every other cell is kept as text, with empty strings
// as null. Short rows are padded with nulls and long rows truncated.
func ParseCSV(r io.Reader) (*Parsed, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := uniqueColumns(header)
	yearIdx := -1
	for i, c := range cols {
		if c == constants.ColReleaseYear {
			yearIdx = i
		}
	}

	b := table.NewBuilder(cols)
	malformed := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if isBlank(rec) {
			continue
		}
		cells := make([]table.Value, len(cols))
		for i := range cols {
			var raw string
			if i < len(rec) {
				raw = strings.TrimSpace(rec[i])
			}
			if i == yearIdx {
				cells[i] = parseYear(raw, &malformed)
				continue
			}
			cells[i] = table.OptString(raw)
		}
		b.Append(cells)
	}

	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Parsed{Table: t, Columns: cols, Malformed: malformed}, nil
}

// ParseBytes is ParseCSV over an in-memory document.
func ParseBytes(data []byte) (*Parsed, error) {
	return ParseCSV(bytes.NewReader(data))
}

func parseYear(raw string, malformed *int) table.Value {
	y, ok := yearOf(raw)
	if !ok {
		*malformed++
		return table.Null()
	}
	return table.IntValue(y)
}

// yearOf accepts "2019" and the float form "2019.0" some exports write.
// Years outside MinReleaseYear..MaxReleaseYear are rejected.
func yearOf(raw string) (int, bool) {
	digits := raw
	if whole, frac, ok := strings.Cut(raw, "."); ok {
		if strings.Trim(frac, "0") != "" {
			return 0, false
		}
		digits = whole
	}
	if digits == "" || strings.ContainsAny(digits, "+-") {
		return 0, false
	}
	y, err := strconv.Atoi(digits)
	if err != nil || y < constants.MinReleaseYear || y > constants.MaxReleaseYear {
		return 0, false
	}
	return y, true
}

func uniqueColumns(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		name := NormalizeColumn(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		cols[i] = name
	}
	return table.UniqueColumns(cols)
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
