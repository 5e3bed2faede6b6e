package dedup_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/compass/internal/adapters/dedup"
	"go.trai.ch/compass/internal/adapters/metrics"
)

func TestGroup_Do_CoalescesConcurrentCallers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := dedup.New[[]byte]()
		release := make(chan struct{})
		var calls atomic.Int32

		const callers = 8
		results := make([][]byte, callers)
		shared := make([]bool, callers)

		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, s, err := g.Do(t.Context(), "https://gitlab.com/doc#anonymous", func(context.Context) ([]byte, error) {
					calls.Add(1)
					<-release
					return []byte("payload"), nil
				})
				assert.NoError(t, err)
				results[i] = v
				shared[i] = s
			}()
		}

		synctest.Wait()
		assert.Equal(t, 1, g.Pending())

		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for i := range callers {
			assert.Equal(t, []byte("payload"), results[i])
			assert.True(t, shared[i])
		}
		assert.Equal(t, 0, g.Pending())
	})
}

func TestGroup_Do_DistinctKeysRunIndependently(t *testing.T) {
	g := dedup.New[string]()

	a, sharedA, err := g.Do(t.Context(), "a", func(context.Context) (string, error) { return "A", nil })
	require.NoError(t, err)
	b, sharedB, err := g.Do(t.Context(), "b", func(context.Context) (string, error) { return "B", nil })
	require.NoError(t, err)

	assert.Equal(t, "A", a)
	assert.Equal(t, "B", b)
	assert.False(t, sharedA)
	assert.False(t, sharedB)
}

func TestGroup_Do_ErrorReleasesSlot(t *testing.T) {
	g := dedup.New[[]byte]()
	boom := errors.New("boom")

	_, _, err := g.Do(t.Context(), "k", func(context.Context) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, g.Pending())

	v, _, err := g.Do(t.Context(), "k", func(context.Context) ([]byte, error) { return []byte("ok"), nil })
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), v)
}

func TestGroup_Do_PanicReleasesSlot(t *testing.T) {
	g := dedup.New[[]byte]()

	_, _, err := g.Do(t.Context(), "k", func(context.Context) ([]byte, error) {
		panic("producer exploded")
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "deduplicated request panicked"))
	assert.Equal(t, 0, g.Pending())

	_, _, err = g.Do(t.Context(), "k", func(context.Context) ([]byte, error) { return nil, nil })
	assert.NoError(t, err)
}

func TestGroup_Do_CallerCancellationDoesNotAbortProducer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := dedup.New[[]byte]()
		release := make(chan struct{})
		done := make(chan error, 1)

		ctx, cancel := context.WithCancel(t.Context())

		go func() {
			_, _, err := g.Do(ctx, "k", func(pctx context.Context) ([]byte, error) {
				<-release
				done <- pctx.Err()
				return []byte("late"), nil
			})
			assert.ErrorIs(t, err, context.Canceled)
		}()

		synctest.Wait()
		cancel()
		synctest.Wait()

		assert.Equal(t, 1, g.Pending(), "producer keeps running after the caller left")

		close(release)
		assert.NoError(t, <-done)
		synctest.Wait()
		assert.Equal(t, 0, g.Pending())
	})
}

func TestGroup_Oldest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		start := time.Now()
		g := dedup.New[int](dedup.WithClock(time.Now))

		_, ok := g.Oldest()
		assert.False(t, ok)

		release := make(chan struct{})
		for _, key := range []string{"first", "second"} {
			go func() {
				_, _, _ = g.Do(t.Context(), key, func(context.Context) (int, error) {
					<-release
					return 1, nil
				})
			}()
			synctest.Wait()
			time.Sleep(time.Second)
		}

		oldest, ok := g.Oldest()
		require.True(t, ok)
		assert.Equal(t, start, oldest)
		assert.Equal(t, 2, g.Pending())

		close(release)
		synctest.Wait()
		assert.Equal(t, 0, g.Pending())
	})
}

func TestGroup_MetricsObserver(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m := metrics.New()
		g := dedup.New[int](dedup.WithObserver(dedup.MetricsObserver{Metrics: m}))
		release := make(chan struct{})

		var wg sync.WaitGroup
		for range 3 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, _ = g.Do(t.Context(), "k", func(context.Context) (int, error) {
					<-release
					return 7, nil
				})
			}()
		}

		synctest.Wait()
		assert.InDelta(t, 1, testutil.ToFloat64(m.DedupInFlight), 0)

		close(release)
		wg.Wait()

		assert.InDelta(t, 0, testutil.ToFloat64(m.DedupInFlight), 0)
		assert.InDelta(t, 2, testutil.ToFloat64(m.DedupShared), 0)
	})
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "anonymous", dedup.Fingerprint(""))

	a := dedup.Fingerprint("glpat-one")
	assert.Len(t, a, 16)
	assert.Equal(t, a, dedup.Fingerprint("glpat-one"))
	assert.NotEqual(t, a, dedup.Fingerprint("glpat-two"))
	assert.NotContains(t, a, "glpat")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "https://gitlab.com/x#anonymous", dedup.Key("https://gitlab.com/x", ""))
	assert.NotEqual(t, dedup.Key("u", "a"), dedup.Key("u", "b"))
}
