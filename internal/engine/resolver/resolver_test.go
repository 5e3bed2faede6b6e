package resolver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/compass/internal/adapters/cache"
	"go.trai.ch/compass/internal/adapters/dedup"
	"go.trai.ch/compass/internal/adapters/filestore"
	"go.trai.ch/compass/internal/adapters/gitlab"
	"go.trai.ch/compass/internal/adapters/metrics"
	"go.trai.ch/compass/internal/adapters/parser"
	"go.trai.ch/compass/internal/adapters/versions"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/compass/internal/core/ports/mocks"
	"go.trai.ch/compass/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

const lintDoc = `# Runs the linter
spec:
  inputs:
    stage:
      default: test
    image:
      description: "Image to run"
---
lint:
  script: echo lint
`

// fakeFetcher serves canned bodies by URL and answers 404 for anything else.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string][]byte
	errs   map[string]error
	calls  map[string]int
	gate   chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		bodies: map[string][]byte{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *fakeFetcher) serve(url, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[url] = []byte(body)
	delete(f.errs, url)
}

func (f *fakeFetcher) fail(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *fakeFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeFetcher) Fetch(_ context.Context, req ports.FetchRequest) ([]byte, error) {
	f.mu.Lock()
	f.calls[req.URL]++
	body, ok := f.bodies[req.URL]
	err := f.errs[req.URL]
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.NetworkError{StatusCode: http.StatusNotFound, URL: req.URL, Attempts: 1}
	}
	return body, nil
}

func (f *fakeFetcher) FetchJSON(ctx context.Context, req ports.FetchRequest, v any) error {
	data, err := f.Fetch(ctx, req)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// recordingLogger keeps warnings for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string) {}
func (l *recordingLogger) Info(string)  {}
func (l *recordingLogger) Error(error)  {}

func (l *recordingLogger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	cfg      domain.Config
	api      *gitlab.API
	fetcher  *fakeFetcher
	cache    *cache.Cache
	clock    *fakeClock
	logger   *recordingLogger
	metrics  *metrics.Metrics
	resolver *resolver.Resolver
}

func newFixture(t *testing.T, mutate ...func(*domain.Config)) *fixture {
	t.Helper()

	cfg := domain.DefaultConfig()
	cfg.CachePath = t.TempDir() + "/components.json"
	for _, m := range mutate {
		m(&cfg)
	}

	f := &fixture{
		cfg:     cfg,
		api:     gitlab.New(cfg),
		fetcher: newFakeFetcher(),
		clock:   &fakeClock{now: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)},
		logger:  &recordingLogger{},
		metrics: metrics.New(),
	}

	c, err := cache.New(filestore.New(t.TempDir()), cache.WithClock(f.clock.Now))
	require.NoError(t, err)
	f.cache = c

	f.resolver = resolver.New(
		cfg,
		c,
		dedup.New[[]byte](),
		f.fetcher,
		parser.New(),
		versions.New(f.fetcher, f.api, versions.PolicyFromConfig(cfg)),
		f.logger,
		resolver.WithClock(f.clock.Now),
		resolver.WithMetrics(f.metrics),
	)
	return f
}

func (f *fixture) ref(version string) domain.ComponentReference {
	return domain.ComponentReference{Instance: "gitlab.com", Path: "grp/proj", Name: "lint", Version: version}
}

func (f *fixture) documentURL(version string, candidate int) string {
	ref := f.ref(version)
	return f.api.RawFile(ref, gitlab.DocumentCandidates(ref.Name)[candidate], version).URL
}

func TestResolver_Resolve_FetchesParsesAndCaches(t *testing.T) {
	f := newFixture(t)
	url := f.documentURL("v1.0.0", 0)
	f.fetcher.serve(url, lintDoc)

	got, err := f.resolver.Resolve(context.Background(), "https://gitlab.com/grp/proj/lint@v1.0.0")
	require.NoError(t, err)

	assert.Equal(t, "lint", got.Name)
	assert.Equal(t, "Runs the linter", got.Description)
	assert.Equal(t, "v1.0.0", got.Version)
	assert.Equal(t, "gitlab.com", got.Instance)
	assert.Equal(t, "grp/proj", got.Path)
	assert.Equal(t, "https://gitlab.com/grp/proj/-/blob/v1.0.0/templates/lint.yml", got.Source)
	assert.True(t, got.IsValidComponent)
	assert.False(t, got.Degraded)
	assert.Equal(t, f.clock.Now(), got.FetchedAt)
	require.Len(t, got.Parameters, 2)
	assert.Equal(t, "stage", got.Parameters[0].Name)
	assert.False(t, got.Parameters[0].Required)
	assert.Equal(t, "image", got.Parameters[1].Name)
	assert.True(t, got.Parameters[1].Required)

	again, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 1, f.fetcher.count(url))

	entry := f.cache.Get(domain.ComponentKey(f.ref("v1.0.0")))
	assert.Equal(t, ports.CacheFresh, entry.State)
	assert.Equal(t, 2, testutil.CollectAndCount(f.metrics.ResolveDuration))
}

func TestResolver_Resolve_SecondDocumentCandidate(t *testing.T) {
	f := newFixture(t)
	f.fetcher.serve(f.documentURL("v1.0.0", 1), lintDoc)

	got, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")
	require.NoError(t, err)

	assert.Equal(t, "https://gitlab.com/grp/proj/-/blob/v1.0.0/templates/lint/template.yml", got.Source)
	assert.Equal(t, 1, f.fetcher.count(f.documentURL("v1.0.0", 0)))
}

func TestResolver_Resolve_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")
	require.Error(t, err)

	var notFound *domain.ComponentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "gitlab.com/grp/proj/lint@v1.0.0", notFound.Reference)
	assert.Contains(t, err.Error(), domain.ErrResolveFailed.Error())
	assert.Equal(t, "check the component path, name and version", domain.Remediation(err))
}

func TestResolver_Resolve_InvalidReference(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.Resolve(context.Background(), "gitlab.com/lint")
	require.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestResolver_Resolve_ParseError(t *testing.T) {
	f := newFixture(t)
	f.fetcher.serve(f.documentURL("v1.0.0", 0), "spec:\n  inputs:\n    stage:\n      default: [unclosed\n---\n")

	_, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ports.CacheMiss, f.cache.Get(domain.ComponentKey(f.ref("v1.0.0"))).State)
}

func TestResolver_Resolve_ConcurrentCallsShareOneFetch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		url := f.documentURL("v1.0.0", 0)
		f.fetcher.serve(url, lintDoc)
		f.fetcher.gate = make(chan struct{})

		const callers = 10
		results := make([]domain.ParsedComponent, callers)
		errs := make([]error, callers)

		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")
			}()
		}

		synctest.Wait()
		close(f.fetcher.gate)
		wg.Wait()

		for i := range callers {
			require.NoError(t, errs[i])
			assert.Equal(t, results[0], results[i])
		}
		assert.Equal(t, 1, f.fetcher.count(url))
	})
}

func TestResolver_Resolve_CallerCancellationStillCaches(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.serve(f.documentURL("v1.0.0", 0), lintDoc)
		f.fetcher.gate = make(chan struct{})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			_, err := f.resolver.Resolve(ctx, "gitlab.com/grp/proj/lint@v1.0.0")
			done <- err
		}()

		synctest.Wait()
		cancel()
		require.ErrorIs(t, <-done, context.Canceled)

		close(f.fetcher.gate)
		synctest.Wait()

		assert.Equal(t, ports.CacheFresh, f.cache.Get(domain.ComponentKey(f.ref("v1.0.0"))).State)
	})
}

func TestResolver_Resolve_StaleOnFailure(t *testing.T) {
	f := newFixture(t)
	url := f.documentURL("v1.0.0", 0)
	f.fetcher.serve(url, lintDoc)

	fresh, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")
	require.NoError(t, err)

	f.clock.Advance(f.cfg.CacheTTL + time.Second)
	f.fetcher.fail(url, &domain.NetworkError{StatusCode: http.StatusBadGateway, URL: url, Attempts: 4})

	got, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")
	require.NoError(t, err)

	assert.True(t, got.Degraded)
	assert.Equal(t, fresh.Parameters, got.Parameters)
	assert.Equal(t, fresh.FetchedAt, got.FetchedAt)
	require.Len(t, f.logger.Warnings(), 1)
	assert.Contains(t, f.logger.Warnings()[0], "serving expired cache entry for gitlab.com/grp/proj/lint@v1.0.0")
}

func TestResolver_Resolve_StaleEntryRefreshed(t *testing.T) {
	f := newFixture(t)
	url := f.documentURL("v1.0.0", 0)
	f.fetcher.serve(url, lintDoc)

	_, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")
	require.NoError(t, err)

	f.clock.Advance(f.cfg.CacheTTL + time.Second)
	f.fetcher.serve(url, "# Lints everything\nspec:\n  inputs:\n    stage:\n      default: test\n---\n")

	got, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")
	require.NoError(t, err)

	assert.False(t, got.Degraded)
	assert.Equal(t, "Lints everything", got.Description)
	assert.Len(t, got.Parameters, 1)
	assert.Equal(t, 2, f.fetcher.count(url))
}

func TestResolver_Resolve_FailureWithoutStaleEntry(t *testing.T) {
	f := newFixture(t)
	url := f.documentURL("v1.0.0", 0)
	f.fetcher.fail(url, &domain.NetworkError{StatusCode: http.StatusUnauthorized, URL: url, Attempts: 1})

	_, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusUnauthorized, netErr.StatusCode)
	assert.Equal(t, "check access token", domain.Remediation(err))
}

func TestResolver_Resolve_DefaultVersion(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.Config)
		tags     string
		branches string
		want     string
	}{
		{
			name:     "primary branch",
			tags:     `[{"name":"v1.0.0"},{"name":"v1.2.0"}]`,
			branches: `[{"name":"feature"},{"name":"main","default":true}]`,
			want:     "main",
		},
		{
			name:     "always latest",
			mutate:   func(c *domain.Config) { c.AlwaysLatest = true },
			tags:     `[{"name":"v1.0.0"},{"name":"v1.2.0"}]`,
			branches: `[{"name":"main"}]`,
			want:     "v1.2.0",
		},
		{
			name: "pinned",
			mutate: func(c *domain.Config) {
				c.PinnedVersions = map[string]string{"gitlab.com/grp/proj/lint": "v1.0.0"}
			},
			tags:     `[{"name":"v1.0.0"},{"name":"v1.2.0"}]`,
			branches: `[{"name":"main"}]`,
			want:     "v1.0.0",
		},
		{
			name: "listing unavailable falls back to primary branch",
			want: "main",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mutate []func(*domain.Config)
			if tt.mutate != nil {
				mutate = append(mutate, tt.mutate)
			}
			f := newFixture(t, mutate...)
			ref := f.ref("")
			if tt.tags != "" {
				f.fetcher.serve(f.api.Tags(ref).URL, tt.tags)
			}
			if tt.branches != "" {
				f.fetcher.serve(f.api.Branches(ref).URL, tt.branches)
			}
			f.fetcher.serve(f.documentURL(tt.want, 0), lintDoc)

			got, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Version)
		})
	}
}

func TestResolver_Resolve_UnversionedFreshHitSkipsNetwork(t *testing.T) {
	f := newFixture(t)
	ref := f.ref("")
	f.fetcher.serve(f.api.Tags(ref).URL, `[{"name":"v1.0.0"}]`)
	f.fetcher.serve(f.api.Branches(ref).URL, `[{"name":"main"}]`)
	f.fetcher.serve(f.documentURL("main", 0), lintDoc)

	first, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint")
	require.NoError(t, err)
	calls := f.fetcher.total()

	// Listing expired, component still fresh.
	f.clock.Advance(f.cfg.VersionsTTL + time.Hour)
	f.fetcher.fail(f.api.Tags(ref).URL, &domain.NetworkError{StatusCode: http.StatusServiceUnavailable})
	f.fetcher.fail(f.api.Branches(ref).URL, &domain.NetworkError{StatusCode: http.StatusServiceUnavailable})

	got, err := f.resolver.Resolve(context.Background(), "gitlab.com/grp/proj/lint")
	require.NoError(t, err)
	assert.Equal(t, first, got)
	assert.Equal(t, "main", got.Version)
	assert.Equal(t, calls, f.fetcher.total())
	assert.Empty(t, f.logger.Warnings())
}

func TestResolver_Resolve_UnversionedUsesCachedListingSelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t)
	ref := f.ref("")

	list := domain.VersionList{Tags: []string{"v1.0.0", "v2.0.0"}}
	data, err := json.Marshal(list)
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(domain.VersionsKey(ref), data, -time.Second))

	component, err := json.Marshal(domain.ParsedComponent{Name: "lint", Version: "v2.0.0"})
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(domain.ComponentKey(f.ref("v2.0.0")), component, time.Hour))

	versionResolver := mocks.NewMockVersionResolver(ctrl)
	versionResolver.EXPECT().Select(ref, list).Return("v2.0.0", nil)

	r := resolver.New(f.cfg, f.cache, dedup.New[[]byte](), f.fetcher, parser.New(), versionResolver, f.logger,
		resolver.WithClock(f.clock.Now))

	got, err := r.Resolve(context.Background(), "gitlab.com/grp/proj/lint")
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", got.Version)
	assert.Zero(t, f.fetcher.total())
}

func TestResolver_Resolve_CacheWriteFailureStillReturns(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t)
	f.fetcher.serve(f.documentURL("v1.0.0", 0), lintDoc)

	key := domain.ComponentKey(f.ref("v1.0.0"))
	c := mocks.NewMockCache(ctrl)
	c.EXPECT().Get(key).Return(ports.CacheResult{State: ports.CacheMiss})
	c.EXPECT().Set(key, gomock.Any(), f.cfg.CacheTTL).Return(&domain.CacheError{Kind: domain.CacheWrite})

	r := resolver.New(f.cfg, c, dedup.New[[]byte](), f.fetcher, parser.New(),
		versions.New(f.fetcher, f.api, versions.PolicyFromConfig(f.cfg)), f.logger,
		resolver.WithClock(f.clock.Now))

	got, err := r.Resolve(context.Background(), "gitlab.com/grp/proj/lint@v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "lint", got.Name)
	assert.Len(t, f.logger.Warnings(), 1)
}

func TestResolver_ListVersions(t *testing.T) {
	f := newFixture(t)
	ref := f.ref("")
	tagsURL := f.api.Tags(ref).URL
	f.fetcher.serve(tagsURL, `[{"name":"v1.0.0"},{"name":"nightly"},{"name":"v2.0.0"}]`)
	f.fetcher.serve(f.api.Branches(ref).URL, `[{"name":"feature"},{"name":"master"},{"name":"main"}]`)

	got, err := f.resolver.ListVersions(context.Background(), "gitlab.com", "grp/proj", "lint")
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "master", "v2.0.0", "v1.0.0", "nightly", "feature"}, got)

	_, err = f.resolver.ListVersions(context.Background(), "gitlab.com", "grp/proj", "lint")
	require.NoError(t, err)
	assert.Equal(t, 1, f.fetcher.count(tagsURL))
	assert.Equal(t, ports.CacheFresh, f.cache.Get(domain.VersionsKey(ref)).State)
}

func TestResolver_ListVersions_StaleOnFailure(t *testing.T) {
	f := newFixture(t)
	ref := f.ref("")
	tagsURL, branchesURL := f.api.Tags(ref).URL, f.api.Branches(ref).URL
	f.fetcher.serve(tagsURL, `[{"name":"v1.0.0"}]`)
	f.fetcher.serve(branchesURL, `[{"name":"main"}]`)

	_, err := f.resolver.ListVersions(context.Background(), "gitlab.com", "grp/proj", "lint")
	require.NoError(t, err)

	f.clock.Advance(f.cfg.VersionsTTL + time.Second)
	f.fetcher.fail(tagsURL, &domain.NetworkError{StatusCode: http.StatusServiceUnavailable, URL: tagsURL})
	f.fetcher.fail(branchesURL, &domain.NetworkError{StatusCode: http.StatusServiceUnavailable, URL: branchesURL})

	got, err := f.resolver.ListVersions(context.Background(), "gitlab.com", "grp/proj", "lint")
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "v1.0.0"}, got)
	assert.NotEmpty(t, f.logger.Warnings())
}

func TestResolver_ListVersions_PartialListingNotCached(t *testing.T) {
	f := newFixture(t)
	ref := f.ref("")
	f.fetcher.serve(f.api.Tags(ref).URL, `[{"name":"v1.0.0"}]`)

	got, err := f.resolver.ListVersions(context.Background(), "gitlab.com", "grp/proj", "lint")
	require.NoError(t, err)

	assert.Equal(t, []string{"v1.0.0"}, got)
	assert.Equal(t, ports.CacheMiss, f.cache.Get(domain.VersionsKey(ref)).State)
	assert.Len(t, f.logger.Warnings(), 1)
}

func TestResolver_ListVersions_Failure(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.ListVersions(context.Background(), "gitlab.com", "grp/proj", "lint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrVersionListFailed.Error())
}

func TestResolver_ResolveAll(t *testing.T) {
	f := newFixture(t, func(c *domain.Config) { c.BatchSize = 2 })
	f.fetcher.serve(f.documentURL("v1.0.0", 0), lintDoc)

	refs := []string{
		"gitlab.com/grp/proj/lint@v1.0.0",
		"gitlab.com/grp/proj/missing@v1.0.0",
		"not-a-reference",
		"gitlab.com/grp/proj/lint@v1.0.0",
	}

	results, err := f.resolver.ResolveAll(context.Background(), refs)
	require.NoError(t, err)
	require.Len(t, results, len(refs))

	for i, res := range results {
		assert.Equal(t, refs[i], res.Reference)
	}
	require.NoError(t, results[0].Err)
	assert.Equal(t, "lint", results[0].Component.Name)

	var notFound *domain.ComponentNotFoundError
	require.ErrorAs(t, results[1].Err, &notFound)
	require.ErrorIs(t, results[2].Err, domain.ErrInvalidReference)
	require.NoError(t, results[3].Err)
}

func TestResolver_ResolveAll_Empty(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.ResolveAll(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNoReferences)
}

func TestResolver_Invalidate(t *testing.T) {
	seed := func(t *testing.T) *fixture {
		t.Helper()
		f := newFixture(t)
		for _, key := range []string{
			"component:gitlab.com/grp/proj/lint@v1.0.0",
			"component:gitlab.com/grp/proj/lint@main",
			"component:gitlab.com/grp/proj/lint2@main",
			"component:gitlab.com/grp/other/build@main",
			"versions:gitlab.com/grp/proj/lint",
		} {
			require.NoError(t, f.cache.Set(key, []byte(`{}`), time.Hour))
		}
		return f
	}

	tests := []struct {
		name    string
		pattern string
		want    int
	}{
		{name: "reference with version", pattern: "gitlab.com/grp/proj/lint@main", want: 1},
		{name: "reference without version", pattern: "gitlab.com/grp/proj/lint", want: 3},
		{name: "key pattern", pattern: "component:gitlab.com/grp/*", want: 4},
		{name: "exact key", pattern: "versions:gitlab.com/grp/proj/lint", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := seed(t)

			n, err := f.resolver.Invalidate(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
			assert.Equal(t, 5-tt.want, f.resolver.Stats().EntryCount)
		})
	}
}

func TestResolver_Invalidate_InvalidReference(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.Invalidate("lint")
	require.True(t, errors.Is(err, domain.ErrInvalidReference))
}

func TestResolver_Reset(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.Set("component:gitlab.com/grp/proj/lint@main", []byte(`{}`), time.Hour))

	require.NoError(t, f.resolver.Reset())
	assert.Zero(t, f.resolver.Stats().EntryCount)
}
