package cache

import (
	"encoding/json"
	"time"
)

// Entry is a cached value with the time it was written and its time to live.
type Entry struct {
	Key       string
	Data      json.RawMessage
	Timestamp time.Time
	TTL       time.Duration
}

// Fresh reports whether the entry's TTL has not elapsed at now.
func (e Entry) Fresh(now time.Time) bool {
	return now.Before(e.Timestamp.Add(e.TTL))
}

// persistedEntry is the on-disk form of an Entry. The TTL is stored in milliseconds.
type persistedEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	TTL       int64           `json:"ttl"`
}

func (e Entry) persisted() persistedEntry {
	return persistedEntry{
		Data:      e.Data,
		Timestamp: e.Timestamp,
		TTL:       e.TTL.Milliseconds(),
	}
}

func (p persistedEntry) entry(key string) Entry {
	return Entry{
		Key:       key,
		Data:      p.Data,
		Timestamp: p.Timestamp,
		TTL:       time.Duration(p.TTL) * time.Millisecond,
	}
}
