// Package cache implements the component cache: a bounded TTL map with
// hierarchical keys that keeps expired entries for stale-on-failure reads
// and checkpoints itself to a ports.KVStore after every mutation.
package cache

import (
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.trai.ch/compass/internal/adapters/metrics"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultStoreKey is the store key holding the serialized cache.
	DefaultStoreKey = "components"
	// DefaultMaxEntries bounds the number of entries kept in memory and on disk.
	DefaultMaxEntries = 2000

	globMeta = "*?[{"
)

// Cache implements ports.Cache.
type Cache struct {
	mu      sync.Mutex
	entries *simplelru.LRU[string, Entry]

	store    ports.KVStore
	storeKey string
	now      func() time.Time
	logger   ports.Logger
	metrics  *metrics.Metrics

	hits      uint64
	misses    uint64
	evictions uint64
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	storeKey   string
	maxEntries int
	now        func() time.Time
	logger     ports.Logger
	metrics    *metrics.Metrics
}

// WithStoreKey sets the store key the cache is persisted under.
func WithStoreKey(key string) Option {
	return func(c *options) { c.storeKey = key }
}

// WithMaxEntries bounds the number of entries. The least recently used entry is evicted first.
func WithMaxEntries(n int) Option {
	return func(c *options) { c.maxEntries = n }
}

// WithClock overrides the clock used for timestamps and freshness.
func WithClock(now func() time.Time) Option {
	return func(c *options) { c.now = now }
}

// WithLogger reports load failures.
func WithLogger(l ports.Logger) Option {
	return func(c *options) { c.logger = l }
}

// WithMetrics counts lookups and evictions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *options) { c.metrics = m }
}

// New creates a Cache backed by store and loads its persisted state.
// Unreadable or corrupt state is logged and the cache starts empty.
func New(store ports.KVStore, opts ...Option) (*Cache, error) {
	cfg := options{
		storeKey:   DefaultStoreKey,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	entries, err := simplelru.NewLRU[string, Entry](cfg.maxEntries, nil)
	if err != nil {
		return nil, &domain.ConfigurationError{MissingField: "max_cache_entries", Reason: err.Error()}
	}

	c := &Cache{
		entries:  entries,
		store:    store,
		storeKey: cfg.storeKey,
		now:      cfg.now,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
	}

	if err := c.load(); err != nil && c.logger != nil {
		c.logger.Warn(err.Error() + ", starting with an empty cache")
	}
	return c, nil
}

// Get looks up key. Expired entries are returned as stale, never dropped.
func (c *Cache) Get(key string) ports.CacheResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Get(key)
	if !ok {
		c.misses++
		c.observe(ports.CacheMiss)
		return ports.CacheResult{State: ports.CacheMiss}
	}

	state := ports.CacheStale
	if e.Fresh(c.now()) {
		state = ports.CacheFresh
		c.hits++
	} else {
		c.misses++
	}
	c.observe(state)

	return ports.CacheResult{
		State:     state,
		Data:      slices.Clone([]byte(e.Data)),
		Timestamp: e.Timestamp,
		TTL:       e.TTL,
	}
}

// Set stores data, which must be valid JSON, under key and checkpoints the cache.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) error {
	if !json.Valid(data) {
		return &domain.CacheError{
			Kind: domain.CacheWrite,
			Key:  key,
			Err:  domain.ErrCacheEncodeFailed,
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if evicted := c.entries.Add(key, Entry{
		Key:       key,
		Data:      slices.Clone(data),
		Timestamp: c.now(),
		TTL:       ttl,
	}); evicted {
		c.evictions++
		if c.metrics != nil {
			c.metrics.CacheEvictions.Inc()
		}
	}

	return c.persist(key)
}

// Invalidate removes key, or every key matching it when it contains wildcards.
// "component:gitlab.com/grp/*" removes every component of that group.
func (c *Cache) Invalidate(pattern string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	if !strings.ContainsAny(pattern, globMeta) {
		if c.entries.Remove(pattern) {
			removed = 1
		}
	} else {
		g, err := glob.Compile(pattern)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "pattern", pattern)
		}
		for _, key := range c.entries.Keys() {
			if g.Match(key) && c.entries.Remove(key) {
				removed++
			}
		}
	}

	if removed == 0 {
		return 0, nil
	}
	return removed, c.persist(pattern)
}

// Reset drops every entry, the persisted state and the usage counters.
func (c *Cache) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Purge()
	c.hits, c.misses, c.evictions = 0, 0, 0

	if err := c.store.Delete(c.storeKey); err != nil {
		return &domain.CacheError{Kind: domain.CacheWrite, Err: err}
	}
	return nil
}

// Stats returns usage counters. StaleCount is computed at call time.
func (c *Cache) Stats() ports.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stale := 0
	for _, e := range c.entries.Values() {
		if !e.Fresh(now) {
			stale++
		}
	}

	stats := ports.CacheStats{
		EntryCount: c.entries.Len(),
		StaleCount: stale,
		Hits:       c.hits,
		Misses:     c.misses,
		Evictions:  c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// Entries returns a snapshot of every entry, least recently used first.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Values()
}

// load reads the persisted map. Entries are added oldest first so that the
// most recently written ones survive the size bound.
func (c *Cache) load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.store.Read(c.storeKey)
	if err != nil {
		return &domain.CacheError{
			Kind: domain.CacheRead,
			Err:  zerr.Wrap(err, domain.ErrCacheLoadFailed.Error()),
		}
	}
	if len(data) == 0 {
		return nil
	}

	var persisted map[string]persistedEntry
	if err := json.Unmarshal(data, &persisted); err != nil {
		return &domain.CacheError{
			Kind: domain.CacheCorruption,
			Err:  zerr.Wrap(err, domain.ErrCacheDecodeFailed.Error()),
		}
	}

	loaded := make([]Entry, 0, len(persisted))
	for key, p := range persisted {
		if len(p.Data) == 0 {
			continue
		}
		loaded = append(loaded, p.entry(key))
	}
	slices.SortFunc(loaded, func(a, b Entry) int {
		if n := a.Timestamp.Compare(b.Timestamp); n != 0 {
			return n
		}
		return strings.Compare(a.Key, b.Key)
	})

	for _, e := range loaded {
		c.entries.Add(e.Key, e)
	}
	return nil
}

// persist checkpoints the whole map. Callers must hold mu.
func (c *Cache) persist(key string) error {
	persisted := make(map[string]persistedEntry, c.entries.Len())
	for _, e := range c.entries.Values() {
		persisted[e.Key] = e.persisted()
	}

	data, err := json.Marshal(persisted)
	if err != nil {
		return &domain.CacheError{
			Kind: domain.CacheWrite,
			Key:  key,
			Err:  zerr.Wrap(err, domain.ErrCacheEncodeFailed.Error()),
		}
	}

	if err := c.store.Write(c.storeKey, data); err != nil {
		return &domain.CacheError{
			Kind: domain.CacheWrite,
			Key:  key,
			Err:  zerr.Wrap(err, domain.ErrCachePersistFailed.Error()),
		}
	}
	return nil
}

func (c *Cache) observe(state ports.CacheState) {
	if c.metrics != nil {
		c.metrics.CacheLookups.WithLabelValues(state.String()).Inc()
	}
}
