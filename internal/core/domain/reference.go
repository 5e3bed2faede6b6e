package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// serverPlaceholders are the GitLab CI variables that stand for the current instance.
var serverPlaceholders = []string{
	"$CI_SERVER_FQDN",
	"${CI_SERVER_FQDN}",
	"$CI_SERVER_HOST",
	"${CI_SERVER_HOST}",
}

// ComponentReference identifies a component by instance, path, name and optional version.
type ComponentReference struct {
	Instance string
	Path     string
	Name     string
	Version  string
}

// ParseReference normalizes a reference string of the form
// scheme://instance/path/segments/name[@version].
// The scheme is optional. Server placeholders are replaced by defaultInstance.
func ParseReference(raw, defaultInstance string) (ComponentReference, error) {
	s := strings.TrimSpace(raw)
	if _, rest, ok := strings.Cut(s, "://"); ok {
		s = rest
	}

	for _, placeholder := range serverPlaceholders {
		if rest, ok := strings.CutPrefix(s, placeholder); ok {
			if defaultInstance == "" {
				return ComponentReference{}, &ConfigurationError{MissingField: "default_instance"}
			}
			s = defaultInstance + rest
			break
		}
	}

	s = strings.TrimRight(s, "/")

	var version string
	if idx := strings.LastIndex(s, "@"); idx >= 0 {
		if strings.Contains(s[idx:], "/") {
			return ComponentReference{}, invalidReference(raw, "version must follow the component name")
		}
		version = s[idx+1:]
		s = s[:idx]
		if version == "" {
			return ComponentReference{}, invalidReference(raw, "empty version")
		}
	}

	segments := strings.Split(s, "/")
	if len(segments) < 3 {
		return ComponentReference{}, invalidReference(raw, "missing instance, path or name")
	}
	for _, seg := range segments {
		if seg == "" {
			return ComponentReference{}, invalidReference(raw, "empty path segment")
		}
	}

	return ComponentReference{
		Instance: segments[0],
		Path:     strings.Join(segments[1:len(segments)-1], "/"),
		Name:     segments[len(segments)-1],
		Version:  version,
	}, nil
}

func invalidReference(raw, reason string) error {
	err := zerr.With(zerr.Wrap(ErrInvalidReference, "cannot parse reference"), "reference", raw)
	return zerr.With(err, "reason", reason)
}

// Location returns instance/path/name without the version.
func (r ComponentReference) Location() string {
	return r.Instance + "/" + r.Path + "/" + r.Name
}

// String returns the canonical reference including the version when set.
func (r ComponentReference) String() string {
	if r.Version == "" {
		return r.Location()
	}
	return r.Location() + "@" + r.Version
}

// WithVersion returns a copy of the reference pinned to version.
func (r ComponentReference) WithVersion(version string) ComponentReference {
	r.Version = version
	return r
}
