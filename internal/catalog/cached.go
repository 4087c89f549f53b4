package catalog

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem[T any] struct {
	value     T
	expiresAt time.Time
}

// Memo is a bounded, expiring in-memory cache. The LRU bound caps memory and
// the TTL caps staleness. Safe for concurrent use.
type Memo[T any] struct {
	storage *lru.Cache[string, cacheItem[T]]
	ttl     time.Duration
	now     func() time.Time
}

// NewMemo creates a memo of at most size entries. A ttl of zero never expires.
func NewMemo[T any](size int, ttl time.Duration) (*Memo[T], error) {
	c, err := lru.New[string, cacheItem[T]](size)
	if err != nil {
		return nil, err
	}
	return &Memo[T]{storage: c, ttl: ttl, now: time.Now}, nil
}

func (m *Memo[T]) Set(key string, value T) {
	item := cacheItem[T]{value: value}
	if m.ttl > 0 {
		item.expiresAt = m.now().Add(m.ttl)
	}
	m.storage.Add(key, item)
}

// Get returns the cached value unless it is absent or expired.
func (m *Memo[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := m.storage.Get(key)
	if !ok {
		return zero, false
	}
	if !item.expiresAt.IsZero() && m.now().After(item.expiresAt) {
		m.storage.Remove(key)
		return zero, false
	}
	return item.value, true
}

// GetOrCompute returns the cached value for key or stores the result of fn.
// Errors are not cached.
func (m *Memo[T]) GetOrCompute(key string, fn func() (T, error)) (T, bool, error) {
	if v, ok := m.Get(key); ok {
		return v, true, nil
	}
	v, err := fn()
	if err != nil {
		return v, false, err
	}
	m.Set(key, v)
	return v, false, nil
}

func (m *Memo[T]) Clear() {
	m.storage.Purge()
}

func (m *Memo[T]) Len() int {
	return m.storage.Len()
}
