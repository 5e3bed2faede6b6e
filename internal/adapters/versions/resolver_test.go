package versions_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/compass/internal/adapters/gitlab"
	"go.trai.ch/compass/internal/adapters/versions"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/compass/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var testRef = domain.ComponentReference{Instance: "gitlab.com", Path: "grp/proj", Name: "lint"}

// respondJSON makes a FetchJSON expectation decode payload into the target.
func respondJSON(payload any) func(context.Context, ports.FetchRequest, any) error {
	return func(_ context.Context, _ ports.FetchRequest, v any) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, v)
	}
}

func newResolver(t *testing.T, cfg domain.Config) (*versions.Resolver, *mocks.MockFetcher, *gitlab.API) {
	t.Helper()
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	api := gitlab.New(cfg)
	return versions.New(fetcher, api, versions.PolicyFromConfig(cfg)), fetcher, api
}

func TestResolver_List(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Tokens = map[string]string{"gitlab.com": "glpat-secret"}
	r, fetcher, api := newResolver(t, cfg)

	tagsReq := api.Tags(testRef)
	assert.Equal(t,
		"https://gitlab.com/api/v4/projects/grp%2Fproj/repository/tags?order_by=updated&per_page=100",
		tagsReq.URL)
	assert.Equal(t, "glpat-secret", tagsReq.Headers[gitlab.TokenHeader])

	fetcher.EXPECT().FetchJSON(gomock.Any(), tagsReq, gomock.Any()).
		DoAndReturn(respondJSON([]gitlab.Tag{{Name: "v1.0.0"}, {Name: "1.2.0"}}))
	fetcher.EXPECT().FetchJSON(gomock.Any(), api.Branches(testRef), gomock.Any()).
		DoAndReturn(respondJSON([]gitlab.Branch{{Name: "main", Default: true}, {Name: "feature"}}))

	list, err := r.List(t.Context(), testRef)
	require.NoError(t, err)

	assert.Equal(t, []string{"v1.0.0", "1.2.0"}, list.Tags)
	assert.Equal(t, []string{"main", "feature"}, list.Branches)
	assert.False(t, list.Partial())
	assert.Equal(t, []string{"v1.0.0", "1.2.0", "main", "feature"}, list.Candidates())
}

func TestResolver_List_OneSourceFails(t *testing.T) {
	r, fetcher, api := newResolver(t, domain.DefaultConfig())

	fetcher.EXPECT().FetchJSON(gomock.Any(), api.Tags(testRef), gomock.Any()).
		Return(&domain.NetworkError{StatusCode: http.StatusForbidden})
	fetcher.EXPECT().FetchJSON(gomock.Any(), api.Branches(testRef), gomock.Any()).
		DoAndReturn(respondJSON([]gitlab.Branch{{Name: "main"}}))

	list, err := r.List(t.Context(), testRef)
	require.NoError(t, err)

	assert.Empty(t, list.Tags)
	assert.Equal(t, []string{"main"}, list.Branches)
	require.True(t, list.Partial())
	assert.Equal(t, "tags", list.Failures[0].Source)
}

func TestResolver_List_BothSourcesFail(t *testing.T) {
	r, fetcher, api := newResolver(t, domain.DefaultConfig())

	fetcher.EXPECT().FetchJSON(gomock.Any(), api.Tags(testRef), gomock.Any()).
		Return(&domain.NetworkError{StatusCode: http.StatusUnauthorized})
	fetcher.EXPECT().FetchJSON(gomock.Any(), api.Branches(testRef), gomock.Any()).
		Return(&domain.NetworkError{StatusCode: http.StatusBadGateway})

	_, err := r.List(t.Context(), testRef)
	require.Error(t, err)

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusUnauthorized, netErr.StatusCode)
}

func TestSelect(t *testing.T) {
	base := versions.Policy{PrimaryBranch: "main", SecondaryBranch: "master"}
	pinned := func(v string) func(domain.ComponentReference) string {
		return func(domain.ComponentReference) string { return v }
	}

	tests := []struct {
		name       string
		policy     func(p versions.Policy) versions.Policy
		candidates []string
		want       string
	}{
		{
			name:       "default prefers primary branch",
			candidates: []string{"1.2.0", "2.0.0", "main", "1.10.0"},
			want:       "main",
		},
		{
			name: "always latest compares numerically",
			policy: func(p versions.Policy) versions.Policy {
				p.AlwaysLatest = true
				return p
			},
			candidates: []string{"1.2.0", "2.0.0", "main", "1.10.0"},
			want:       "2.0.0",
		},
		{
			name: "always latest numeric not lexical",
			policy: func(p versions.Policy) versions.Policy {
				p.AlwaysLatest = true
				return p
			},
			candidates: []string{"1.2.0", "1.10.0", "1.9.0"},
			want:       "1.10.0",
		},
		{
			name: "always latest falls back to primary branch",
			policy: func(p versions.Policy) versions.Policy {
				p.AlwaysLatest = true
				return p
			},
			candidates: []string{"feature", "main"},
			want:       "main",
		},
		{
			name: "always latest prefers stable releases",
			policy: func(p versions.Policy) versions.Policy {
				p.AlwaysLatest = true
				return p
			},
			candidates: []string{"1.0.0", "2.0.0-rc.1"},
			want:       "1.0.0",
		},
		{
			name: "pinned version wins",
			policy: func(p versions.Policy) versions.Policy {
				p.AlwaysLatest = true
				p.Pinned = pinned("1.2.0")
				return p
			},
			candidates: []string{"1.2.0", "2.0.0", "main"},
			want:       "1.2.0",
		},
		{
			name: "pinned version absent from candidates is ignored",
			policy: func(p versions.Policy) versions.Policy {
				p.Pinned = pinned("9.9.9")
				return p
			},
			candidates: []string{"1.2.0", "main"},
			want:       "main",
		},
		{
			name:       "secondary branch",
			candidates: []string{"1.2.0", "master"},
			want:       "master",
		},
		{
			name:       "highest semver without branches",
			candidates: []string{"feature", "v1.2.0", "v1.10.0"},
			want:       "v1.10.0",
		},
		{
			name:       "first candidate as last resort",
			candidates: []string{"feature", "develop"},
			want:       "feature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := base
			if tt.policy != nil {
				policy = tt.policy(policy)
			}
			got, err := versions.Select(policy, testRef, tt.candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_NoCandidates(t *testing.T) {
	_, err := versions.Select(versions.Policy{PrimaryBranch: "main"}, testRef, nil)
	require.ErrorIs(t, err, domain.ErrNoVersionCandidates)
}

func TestResolver_Select_UsesCandidates(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.PinnedVersions = map[string]string{testRef.Location(): "v1.0.0"}
	r, _, _ := newResolver(t, cfg)

	got, err := r.Select(testRef, domain.VersionList{Tags: []string{"v1.0.0"}, Branches: []string{"main"}})
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", got)
}
