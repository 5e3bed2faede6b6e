// Package resolver turns component references into parsed component metadata,
// combining the cache, request deduplication, retrying fetches and the spec parser.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.trai.ch/compass/internal/adapters/dedup"
	"go.trai.ch/compass/internal/adapters/gitlab"
	"go.trai.ch/compass/internal/adapters/metrics"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.ComponentResolver = (*Resolver)(nil)

// Resolver resolves component references through the cache and the network.
type Resolver struct {
	cfg      domain.Config
	cache    ports.Cache
	dedup    ports.Deduplicator
	fetcher  ports.Fetcher
	parser   ports.SpecParser
	versions ports.VersionResolver
	logger   ports.Logger

	api     *gitlab.API
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAPI replaces the GitLab endpoint builder.
func WithAPI(api *gitlab.API) Option {
	return func(r *Resolver) { r.api = api }
}

// WithMetrics reports resolution durations to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithClock replaces the time source used for FetchedAt and durations.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// New creates a Resolver.
func New(
	cfg domain.Config,
	cache ports.Cache,
	deduplicator ports.Deduplicator,
	fetcher ports.Fetcher,
	parser ports.SpecParser,
	versions ports.VersionResolver,
	logger ports.Logger,
	opts ...Option,
) *Resolver {
	r := &Resolver{
		cfg:      cfg,
		cache:    cache,
		dedup:    deduplicator,
		fetcher:  fetcher,
		parser:   parser,
		versions: versions,
		logger:   logger,
		api:      gitlab.New(cfg),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve parses raw and resolves the referenced component.
func (r *Resolver) Resolve(ctx context.Context, raw string) (domain.ParsedComponent, error) {
	ref, err := domain.ParseReference(raw, r.cfg.DefaultInstance)
	if err != nil {
		return domain.ParsedComponent{}, err
	}
	return r.ResolveReference(ctx, ref)
}

// ResolveReference resolves an already normalized reference.
// A fresh cache entry is returned without network access. On a miss or a stale
// entry the document is fetched once per key, parsed and cached. When the refresh
// fails and a stale entry exists, the stale component is returned marked Degraded.
func (r *Resolver) ResolveReference(ctx context.Context, ref domain.ComponentReference) (domain.ParsedComponent, error) {
	start := r.now()

	if ref.Version == "" {
		if component, ok := r.cachedDefault(ref); ok {
			r.observe(start, metrics.ResultCached)
			return component, nil
		}
		ref.Version = r.defaultVersion(ctx, ref)
	}

	key := domain.ComponentKey(ref)
	cached := r.cache.Get(key)
	if cached.State == ports.CacheFresh {
		component, err := decodeComponent(cached.Data)
		if err == nil {
			r.observe(start, metrics.ResultCached)
			return component, nil
		}
		r.logger.Warn(zerr.With(err, "key", key).Error() + ", refetching")
	}

	data, shared, err := r.dedup.Do(ctx, r.flightKey(ref), func(ctx context.Context) ([]byte, error) {
		return r.refresh(ctx, ref, key)
	})
	if err == nil {
		var component domain.ParsedComponent
		component, err = decodeComponent(data)
		if err == nil {
			if shared {
				r.logger.Debug("reused in-flight fetch for " + ref.String())
			}
			r.observe(start, metrics.ResultFetched)
			return component, nil
		}
	}

	if cached.Hit() && ctx.Err() == nil {
		if stale, decodeErr := decodeComponent(cached.Data); decodeErr == nil {
			stale.Degraded = true
			r.logger.Warn("serving expired cache entry for " + ref.String() + ": " + err.Error())
			r.observe(start, metrics.ResultDegraded)
			return stale, nil
		}
	}

	r.observe(start, metrics.ResultFailed)
	return domain.ParsedComponent{}, zerr.With(zerr.Wrap(err, domain.ErrResolveFailed.Error()), "reference", ref.String())
}

// ResolveAll resolves every reference with at most BatchSize resolutions in flight.
// Results keep the order of refs; a failing reference does not stop the others.
func (r *Resolver) ResolveAll(ctx context.Context, refs []string) ([]domain.BatchResult, error) {
	if len(refs) == 0 {
		return nil, domain.ErrNoReferences
	}

	results := make([]domain.BatchResult, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.BatchSize)

	for i, raw := range refs {
		g.Go(func() error {
			component, err := r.Resolve(gctx, raw)
			results[i] = domain.BatchResult{Reference: raw, Component: component, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results, nil
}

// ListVersions returns the version candidates of a component in selection priority order.
// Listings are cached under the versions: key with VersionsTTL and served stale on failure.
func (r *Resolver) ListVersions(ctx context.Context, instance, path, name string) ([]string, error) {
	ref := domain.ComponentReference{Instance: instance, Path: path, Name: name}
	list, err := r.versionList(ctx, ref)
	if err != nil {
		return nil, err
	}
	return domain.SortVersions(list.Candidates(), r.cfg.PrimaryBranch, r.cfg.SecondaryBranch), nil
}

// Invalidate removes cache entries. A pattern starting with a key kind such as
// "component:" is passed to the cache as a key or wildcard pattern. Anything else
// is read as a component reference: with a version only that component is dropped,
// without one every cached version and the version listing are dropped.
func (r *Resolver) Invalidate(pattern string) (int, error) {
	if isKeyPattern(pattern) {
		return r.cache.Invalidate(pattern)
	}

	ref, err := domain.ParseReference(pattern, r.cfg.DefaultInstance)
	if err != nil {
		return 0, err
	}

	patterns := []string{domain.ComponentKey(ref)}
	if ref.Version == "" {
		patterns = append(patterns, domain.ComponentKey(ref)+"@*", domain.VersionsKey(ref))
	}

	total := 0
	for _, p := range patterns {
		n, err := r.cache.Invalidate(p)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Reset removes every cache entry.
func (r *Resolver) Reset() error {
	return r.cache.Reset()
}

// Stats returns cache usage counters.
func (r *Resolver) Stats() ports.CacheStats {
	return r.cache.Stats()
}

// refresh fetches, parses and caches the component. It runs once per in-flight key,
// so the cache is populated even when every waiting caller has gone away.
func (r *Resolver) refresh(ctx context.Context, ref domain.ComponentReference, key string) ([]byte, error) {
	component, err := r.fetchComponent(ctx, ref)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(component)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheEncodeFailed.Error())
	}
	if err := r.cache.Set(key, data, r.cfg.CacheTTL); err != nil {
		r.logger.Warn(err.Error())
	}
	return data, nil
}

func (r *Resolver) fetchComponent(ctx context.Context, ref domain.ComponentReference) (domain.ParsedComponent, error) {
	for _, file := range gitlab.DocumentCandidates(ref.Name) {
		raw, err := r.fetcher.Fetch(ctx, r.api.RawFile(ref, file, ref.Version))
		if isNotFound(err) {
			r.logger.Debug("no component document at " + file + " for " + ref.String())
			continue
		}
		if err != nil {
			return domain.ParsedComponent{}, err
		}

		spec, err := r.parser.Parse(raw)
		if err != nil {
			return domain.ParsedComponent{}, zerr.With(err, "file", file)
		}

		return domain.ParsedComponent{
			Name:             ref.Name,
			Description:      spec.Description,
			Parameters:       spec.Parameters,
			Version:          ref.Version,
			Source:           r.api.WebURL(ref, file, ref.Version),
			Instance:         ref.Instance,
			Path:             ref.Path,
			IsValidComponent: spec.IsValidComponent,
			FetchedAt:        r.now().UTC(),
		}, nil
	}

	return domain.ParsedComponent{}, &domain.ComponentNotFoundError{Reference: ref.String()}
}

// cachedDefault serves an unversioned reference without network access: the
// cached version listing, even when expired, selects the version, and that
// component is returned if its entry is fresh. The listing is not refreshed.
func (r *Resolver) cachedDefault(ref domain.ComponentReference) (domain.ParsedComponent, bool) {
	listing := r.cache.Get(domain.VersionsKey(ref))
	if !listing.Hit() {
		return domain.ParsedComponent{}, false
	}

	var list domain.VersionList
	if err := json.Unmarshal(listing.Data, &list); err != nil {
		return domain.ParsedComponent{}, false
	}
	version, err := r.versions.Select(ref, list)
	if err != nil {
		return domain.ParsedComponent{}, false
	}

	ref.Version = version
	entry := r.cache.Get(domain.ComponentKey(ref))
	if entry.State != ports.CacheFresh {
		return domain.ParsedComponent{}, false
	}
	component, err := decodeComponent(entry.Data)
	return component, err == nil
}

// defaultVersion picks the version used when a reference names none.
// Any failure falls back to the primary branch.
func (r *Resolver) defaultVersion(ctx context.Context, ref domain.ComponentReference) string {
	list, err := r.versionList(ctx, ref)
	if err != nil {
		r.logger.Debug("cannot list versions of " + ref.Location() + ", using " + r.cfg.PrimaryBranch + ": " + err.Error())
		return r.cfg.PrimaryBranch
	}

	version, err := r.versions.Select(ref, list)
	if err != nil {
		r.logger.Debug("cannot select a version of " + ref.Location() + ", using " + r.cfg.PrimaryBranch)
		return r.cfg.PrimaryBranch
	}
	return version
}

func (r *Resolver) versionList(ctx context.Context, ref domain.ComponentReference) (domain.VersionList, error) {
	key := domain.VersionsKey(ref)
	cached := r.cache.Get(key)
	if cached.State == ports.CacheFresh {
		var list domain.VersionList
		if err := json.Unmarshal(cached.Data, &list); err == nil {
			return list, nil
		}
	}

	flightKey := dedup.Key(string(domain.KindVersions)+":"+r.api.Tags(ref).URL, r.api.Token(ref.Instance))
	data, _, err := r.dedup.Do(ctx, flightKey, func(ctx context.Context) ([]byte, error) {
		return r.refreshVersions(ctx, ref, key)
	})
	if err == nil {
		var list domain.VersionList
		if err = json.Unmarshal(data, &list); err == nil {
			return list, nil
		}
		err = zerr.Wrap(err, domain.ErrCacheDecodeFailed.Error())
	}

	if cached.Hit() {
		var list domain.VersionList
		if decodeErr := json.Unmarshal(cached.Data, &list); decodeErr == nil {
			r.logger.Warn("serving expired version listing for " + ref.Location() + ": " + err.Error())
			return list, nil
		}
	}
	return domain.VersionList{}, err
}

// refreshVersions lists versions and caches complete listings. A listing missing
// one source is returned but not cached.
func (r *Resolver) refreshVersions(ctx context.Context, ref domain.ComponentReference, key string) ([]byte, error) {
	list, err := r.versions.List(ctx, ref)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(list)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheEncodeFailed.Error())
	}

	if list.Partial() {
		for _, f := range list.Failures {
			r.logger.Warn("listing " + f.Source + " of " + ref.Location() + " failed: " + f.Err.Error())
		}
		return data, nil
	}

	if err := r.cache.Set(key, data, r.cfg.VersionsTTL); err != nil {
		r.logger.Warn(err.Error())
	}
	return data, nil
}

// flightKey identifies a component fetch by its first document URL and credentials.
func (r *Resolver) flightKey(ref domain.ComponentReference) string {
	first := gitlab.DocumentCandidates(ref.Name)[0]
	return dedup.Key(r.api.RawFile(ref, first, ref.Version).URL, r.api.Token(ref.Instance))
}

func (r *Resolver) observe(start time.Time, result string) {
	if r.metrics == nil {
		return
	}
	r.metrics.ResolveDuration.WithLabelValues(result).Observe(r.now().Sub(start).Seconds())
}

func decodeComponent(data []byte) (domain.ParsedComponent, error) {
	var component domain.ParsedComponent
	if err := json.Unmarshal(data, &component); err != nil {
		return domain.ParsedComponent{}, &domain.CacheError{Kind: domain.CacheCorruption, Err: err}
	}
	return component, nil
}

func isNotFound(err error) bool {
	var netErr *domain.NetworkError
	return errors.As(err, &netErr) && netErr.StatusCode == http.StatusNotFound
}

func isKeyPattern(pattern string) bool {
	for _, kind := range []domain.KeyKind{domain.KindComponent, domain.KindVersions} {
		if strings.HasPrefix(pattern, string(kind)+":") {
			return true
		}
	}
	return false
}
