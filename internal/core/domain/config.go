package domain

import "time"

// Config enumerates every recognized option of the resolution pipeline.
type Config struct {
	// Timeout bounds a single fetch attempt.
	Timeout time.Duration
	// RetryAttempts is the number of retries after the first attempt.
	RetryAttempts int
	// RetryBaseDelay is the base of the exponential backoff.
	RetryBaseDelay time.Duration
	// BatchSize bounds the parallelism of batch resolution.
	BatchSize int
	// CacheTTL is the freshness window of resolved components.
	CacheTTL time.Duration
	// VersionsTTL is the freshness window of version listings.
	VersionsTTL time.Duration
	// MaxCacheEntries bounds the in-memory cache.
	MaxCacheEntries int
	// CachePath is the location of the persisted cache.
	CachePath string
	// DefaultInstance replaces $CI_SERVER_FQDN style placeholders.
	DefaultInstance string
	// PrimaryBranch and SecondaryBranch drive default version selection.
	PrimaryBranch   string
	SecondaryBranch string
	// AlwaysLatest selects the highest semantic version when no version is given.
	AlwaysLatest bool
	// PinnedVersions maps "instance/path/name" to a fixed version.
	PinnedVersions map[string]string
	// Tokens maps an instance host to its access token.
	Tokens map[string]string
}

// DefaultConfig returns the configuration used when no file or environment override exists.
func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		RetryAttempts:   3,
		RetryBaseDelay:  500 * time.Millisecond,
		BatchSize:       5,
		CacheTTL:        24 * time.Hour,
		VersionsTTL:     time.Hour,
		MaxCacheEntries: 2000,
		CachePath:       DefaultCachePath(),
		DefaultInstance: "gitlab.com",
		PrimaryBranch:   "main",
		SecondaryBranch: "master",
		PinnedVersions:  map[string]string{},
		Tokens:          map[string]string{},
	}
}

// Validate reports the first option that makes the configuration unusable.
func (c Config) Validate() error {
	switch {
	case c.Timeout <= 0:
		return &ConfigurationError{MissingField: "timeout", Reason: "must be positive"}
	case c.RetryAttempts < 0:
		return &ConfigurationError{MissingField: "retry_attempts", Reason: "must not be negative"}
	case c.BatchSize <= 0:
		return &ConfigurationError{MissingField: "batch_size", Reason: "must be positive"}
	case c.CacheTTL <= 0:
		return &ConfigurationError{MissingField: "cache_ttl", Reason: "must be positive"}
	case c.VersionsTTL <= 0:
		return &ConfigurationError{MissingField: "versions_ttl", Reason: "must be positive"}
	case c.MaxCacheEntries <= 0:
		return &ConfigurationError{MissingField: "max_cache_entries", Reason: "must be positive"}
	case c.CachePath == "":
		return &ConfigurationError{MissingField: "cache_path"}
	case c.PrimaryBranch == "":
		return &ConfigurationError{MissingField: "primary_branch"}
	}
	return nil
}

// TokenFor returns the access token configured for an instance, if any.
func (c Config) TokenFor(instance string) string {
	if c.Tokens == nil {
		return ""
	}
	return c.Tokens[instance]
}

// PinnedVersion returns the version pinned for a component, if any.
func (c Config) PinnedVersion(ref ComponentReference) string {
	if c.PinnedVersions == nil {
		return ""
	}
	return c.PinnedVersions[ref.Location()]
}
