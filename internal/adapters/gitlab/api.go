// Package gitlab builds the REST endpoints used to read components from a GitLab instance.
package gitlab

import (
	"net/url"
	"strconv"

	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
)

const (
	// TokenHeader carries the access token on API requests.
	TokenHeader = "PRIVATE-TOKEN"
	// PageSize is the number of tags or branches requested per call.
	PageSize = 100

	apiPrefix = "/api/v4/projects/"
)

// Tag is the subset of the tags API payload that is read.
type Tag struct {
	Name string `json:"name"`
}

// Branch is the subset of the branches API payload that is read.
type Branch struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// API builds requests against GitLab instances.
type API struct {
	scheme string
	tokens func(instance string) string
}

// New creates an API using https and tokens from cfg.
func New(cfg domain.Config) *API {
	return &API{scheme: "https", tokens: cfg.TokenFor}
}

// WithScheme returns a copy of a using scheme, for plain http test servers.
func (a *API) WithScheme(scheme string) *API {
	c := *a
	c.scheme = scheme
	return &c
}

// Token returns the access token configured for instance.
func (a *API) Token(instance string) string {
	if a.tokens == nil {
		return ""
	}
	return a.tokens(instance)
}

// Tags returns the request listing the tags of the project holding ref.
func (a *API) Tags(ref domain.ComponentReference) ports.FetchRequest {
	return a.request(ref.Instance, a.project(ref)+"/repository/tags", url.Values{
		"per_page": {strconv.Itoa(PageSize)},
		"order_by": {"updated"},
	})
}

// Branches returns the request listing the branches of the project holding ref.
func (a *API) Branches(ref domain.ComponentReference) ports.FetchRequest {
	return a.request(ref.Instance, a.project(ref)+"/repository/branches", url.Values{
		"per_page": {strconv.Itoa(PageSize)},
	})
}

// RawFile returns the request reading file at version from the project holding ref.
func (a *API) RawFile(ref domain.ComponentReference, file, version string) ports.FetchRequest {
	return a.request(ref.Instance,
		a.project(ref)+"/repository/files/"+url.PathEscape(file)+"/raw",
		url.Values{"ref": {version}},
	)
}

// WebURL returns the browsable location of file at version in the project holding ref.
func (a *API) WebURL(ref domain.ComponentReference, file, version string) string {
	return a.scheme + "://" + ref.Instance + "/" + ref.Path + "/-/blob/" + version + "/" + file
}

// DocumentCandidates returns the repository files that may hold the component, in lookup order.
func DocumentCandidates(name string) []string {
	return []string{
		"templates/" + name + ".yml",
		"templates/" + name + "/template.yml",
	}
}

func (a *API) project(ref domain.ComponentReference) string {
	return apiPrefix + url.PathEscape(ref.Path)
}

func (a *API) request(instance, escapedPath string, query url.Values) ports.FetchRequest {
	u := a.scheme + "://" + instance + escapedPath
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req := ports.FetchRequest{URL: u}
	if token := a.Token(instance); token != "" {
		req.Headers = map[string]string{TokenHeader: token}
	}
	return req
}
