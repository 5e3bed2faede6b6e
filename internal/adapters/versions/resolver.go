// Package versions lists the tags and branches of a component project and
// selects the version to use when a reference does not name one.
package versions

import (
	"context"
	"slices"

	"go.trai.ch/compass/internal/adapters/gitlab"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	sourceTags     = "tags"
	sourceBranches = "branches"
)

// Policy holds the selection settings.
type Policy struct {
	PrimaryBranch   string
	SecondaryBranch string
	AlwaysLatest    bool
	Pinned          func(domain.ComponentReference) string
}

// PolicyFromConfig extracts the selection settings from cfg.
func PolicyFromConfig(cfg domain.Config) Policy {
	return Policy{
		PrimaryBranch:   cfg.PrimaryBranch,
		SecondaryBranch: cfg.SecondaryBranch,
		AlwaysLatest:    cfg.AlwaysLatest,
		Pinned:          cfg.PinnedVersion,
	}
}

// Resolver implements ports.VersionResolver against the GitLab REST API.
type Resolver struct {
	fetcher ports.Fetcher
	api     *gitlab.API
	policy  Policy
}

// New creates a Resolver.
func New(fetcher ports.Fetcher, api *gitlab.API, policy Policy) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		api:     api,
		policy:  policy,
	}
}

// List fetches tags and branches in parallel. A failing source is recorded in
// VersionList.Failures; only when both fail is an error returned, carrying the
// failure of the tags source.
func (r *Resolver) List(ctx context.Context, ref domain.ComponentReference) (domain.VersionList, error) {
	var (
		list               domain.VersionList
		tagsErr, branchErr error
		tags               []gitlab.Tag
		branches           []gitlab.Branch
	)

	var g errgroup.Group
	g.Go(func() error {
		tagsErr = r.fetcher.FetchJSON(ctx, r.api.Tags(ref), &tags)
		return nil
	})
	g.Go(func() error {
		branchErr = r.fetcher.FetchJSON(ctx, r.api.Branches(ref), &branches)
		return nil
	})
	_ = g.Wait()

	if tagsErr != nil && branchErr != nil {
		return domain.VersionList{}, zerr.With(
			zerr.Wrap(tagsErr, domain.ErrVersionListFailed.Error()),
			"component", ref.Location(),
		)
	}

	list.Tags = make([]string, 0, len(tags))
	for _, t := range tags {
		list.Tags = append(list.Tags, t.Name)
	}
	list.Branches = make([]string, 0, len(branches))
	for _, b := range branches {
		list.Branches = append(list.Branches, b.Name)
	}

	if tagsErr != nil {
		list.Failures = append(list.Failures, domain.SourceFailure{Source: sourceTags, Err: tagsErr})
	}
	if branchErr != nil {
		list.Failures = append(list.Failures, domain.SourceFailure{Source: sourceBranches, Err: branchErr})
	}
	return list, nil
}

// Select picks the version to use for ref among the candidates of list:
//  1. the pinned version, when it is a candidate
//  2. with AlwaysLatest, the highest semantic version
//  3. the primary branch, the secondary branch, the highest semantic version,
//     then the first candidate
func (r *Resolver) Select(ref domain.ComponentReference, list domain.VersionList) (string, error) {
	return Select(r.policy, ref, list.Candidates())
}

// Select applies policy to candidates.
func Select(policy Policy, ref domain.ComponentReference, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", zerr.With(
			zerr.Wrap(domain.ErrNoVersionCandidates, "cannot select a version"),
			"component", ref.Location(),
		)
	}

	if policy.Pinned != nil {
		if pinned := policy.Pinned(ref); pinned != "" && slices.Contains(candidates, pinned) {
			return pinned, nil
		}
	}

	if policy.AlwaysLatest {
		if latest, ok := domain.HighestSemver(candidates); ok {
			return latest, nil
		}
	}

	for _, branch := range []string{policy.PrimaryBranch, policy.SecondaryBranch} {
		if branch != "" && slices.Contains(candidates, branch) {
			return branch, nil
		}
	}

	if latest, ok := domain.HighestSemver(candidates); ok {
		return latest, nil
	}
	return candidates[0], nil
}
