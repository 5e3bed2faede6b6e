package ports

import "time"

// CacheState describes the outcome of a cache lookup.
type CacheState uint8

const (
	// CacheMiss indicates no entry exists for the key.
	CacheMiss CacheState = iota
	// CacheFresh indicates the entry exists and its TTL has not elapsed.
	CacheFresh
	// CacheStale indicates the entry exists but its TTL has elapsed.
	CacheStale
)

func (s CacheState) String() string {
	switch s {
	case CacheFresh:
		return "fresh"
	case CacheStale:
		return "stale"
	default:
		return "miss"
	}
}

// CacheResult is the result of a cache lookup.
type CacheResult struct {
	State     CacheState
	Data      []byte
	Timestamp time.Time
	TTL       time.Duration
}

// Hit reports whether an entry, fresh or stale, was found.
func (r CacheResult) Hit() bool {
	return r.State != CacheMiss
}

// CacheStats summarizes cache usage.
type CacheStats struct {
	EntryCount int     `json:"entryCount"`
	StaleCount int     `json:"staleCount"`
	Hits       uint64  `json:"hits"`
	Misses     uint64  `json:"misses"`
	Evictions  uint64  `json:"evictions"`
	HitRate    float64 `json:"hitRate"`
}

// Cache is a TTL cache with hierarchical keys and stale-on-failure reads.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type Cache interface {
	// Get looks up key. Expired entries are returned with CacheStale.
	Get(key string) CacheResult

	// Set stores data under key with the given TTL and checkpoints the cache.
	Set(key string, data []byte, ttl time.Duration) error

	// Invalidate removes an exact key or every key matching a wildcard pattern.
	// It returns the number of removed entries.
	Invalidate(pattern string) (int, error)

	// Reset removes every entry.
	Reset() error

	// Stats returns usage counters.
	Stats() CacheStats
}
