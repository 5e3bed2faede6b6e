package domain

import "time"

// ComponentParameter is a single input declared by a component.
type ComponentParameter struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required"`
	Type        string   `json:"type"`
	Default     *string  `json:"default,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// ParsedSpec is the structured content of a component document's spec section.
type ParsedSpec struct {
	Description      string               `json:"description,omitempty"`
	Parameters       []ComponentParameter `json:"parameters"`
	IsValidComponent bool                 `json:"isValidComponent"`
}

// ParseResult is the non-failing outcome of parsing a single document.
type ParseResult struct {
	Spec ParsedSpec
	Err  error
}

// OK reports whether the document was parsed successfully.
func (r ParseResult) OK() bool {
	return r.Err == nil
}

// ParsedComponent is the resolved metadata returned to callers.
type ParsedComponent struct {
	Name             string               `json:"name"`
	Description      string               `json:"description,omitempty"`
	Parameters       []ComponentParameter `json:"parameters"`
	Version          string               `json:"version"`
	Source           string               `json:"source"`
	Instance         string               `json:"instance"`
	Path             string               `json:"path"`
	IsValidComponent bool                 `json:"isValidComponent"`
	FetchedAt        time.Time            `json:"fetchedAt"`
	// Degraded is set when the component was served from an expired cache entry
	// because refreshing it failed. It is never persisted.
	Degraded bool `json:"-"`
}

// RequiredParameters returns the parameters that have no default.
func (c *ParsedComponent) RequiredParameters() []ComponentParameter {
	var required []ComponentParameter
	for _, p := range c.Parameters {
		if p.Required {
			required = append(required, p)
		}
	}
	return required
}

// SourceFailure records a version source that could not be listed.
type SourceFailure struct {
	Source string
	Err    error
}

// VersionList is the set of version candidates of a component.
// Tags come before branches; order within each source is preserved.
type VersionList struct {
	Tags     []string        `json:"tags"`
	Branches []string        `json:"branches"`
	Failures []SourceFailure `json:"-"`
}

// Candidates returns every distinct version name in source order.
func (l VersionList) Candidates() []string {
	seen := make(map[string]struct{}, len(l.Tags)+len(l.Branches))
	out := make([]string, 0, len(l.Tags)+len(l.Branches))
	for _, list := range [][]string{l.Tags, l.Branches} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Partial reports whether at least one source failed.
func (l VersionList) Partial() bool {
	return len(l.Failures) > 0
}

// BatchResult is the outcome of resolving one reference of a batch.
type BatchResult struct {
	Reference string
	Component ParsedComponent
	Err       error
}
