// Package dedup coalesces concurrent requests for the same key into a single call.
package dedup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// anonymous is the fingerprint used for requests without credentials.
const anonymous = "anonymous"

// Observer receives in-flight notifications. Metrics satisfy it through MetricsObserver.
type Observer interface {
	Started()
	Finished()
	Joined()
}

// Group runs at most one producer per key at a time and hands its result to every waiter.
type Group[T any] struct {
	flight singleflight.Group

	mu      sync.Mutex
	pending map[string]time.Time

	now      func() time.Time
	observer Observer
}

// Option configures a Group.
type Option func(*options)

type options struct {
	now      func() time.Time
	observer Observer
}

// WithClock overrides the clock used to timestamp pending requests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithObserver reports in-flight activity to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// New creates an empty Group.
func New[T any](opts ...Option) *Group[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Group[T]{
		pending:  make(map[string]time.Time),
		now:      o.now,
		observer: o.observer,
	}
}

// Do returns the result of fn for key, starting fn only if no call for key is in flight.
// The producer runs on a context detached from ctx cancellation: a caller that stops
// waiting gets ctx.Err() while the producer keeps running for the others.
// shared reports whether the result was handed to more than one caller.
func (g *Group[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, bool, error) {
	detached := context.WithoutCancel(ctx)

	joined := true
	ch := g.flight.DoChan(key, func() (any, error) {
		joined = false
		return g.run(detached, key, fn)
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if joined && g.observer != nil {
			g.observer.Joined()
		}
		if res.Err != nil {
			return zero, res.Shared, res.Err
		}
		v, _ := res.Val.(T)
		return v, res.Shared, nil
	}
}

// run executes fn while key is tracked as pending. The pending slot is released
// on success, error and panic alike; a panic is converted into an error.
func (g *Group[T]) run(ctx context.Context, key string, fn func(context.Context) (T, error)) (val any, err error) {
	g.track(key)
	defer g.untrack(key)

	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.Wrap(fmt.Errorf("%v", r), domain.ErrProducerPanicked.Error()), "key", key)
		}
	}()

	return fn(ctx)
}

func (g *Group[T]) track(key string) {
	g.mu.Lock()
	g.pending[key] = g.now()
	g.mu.Unlock()

	if g.observer != nil {
		g.observer.Started()
	}
}

func (g *Group[T]) untrack(key string) {
	g.mu.Lock()
	delete(g.pending, key)
	g.mu.Unlock()

	if g.observer != nil {
		g.observer.Finished()
	}
}

// Pending returns the number of keys currently in flight.
func (g *Group[T]) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// Oldest returns the start time of the oldest in-flight request.
// ok is false when nothing is in flight.
func (g *Group[T]) Oldest() (started time.Time, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, ts := range g.pending {
		if !ok || ts.Before(started) {
			started, ok = ts, true
		}
	}
	return started, ok
}

// Fingerprint returns a short, non-reversible identifier for an access token.
func Fingerprint(token string) string {
	if token == "" {
		return anonymous
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(token))
}

// Key builds the deduplication key for a request to url made with token.
// Requests carrying different credentials are never coalesced.
func Key(url, token string) string {
	return url + "#" + Fingerprint(token)
}
