package domain

import (
	"errors"
	"fmt"
	"net/http"

	"go.trai.ch/zerr"
)

var (
	// ErrInvalidReference is returned when a component reference cannot be split into instance, path and name.
	ErrInvalidReference = zerr.New("invalid component reference, expected format: instance/path/name[@version]")

	// ErrProducerPanicked is returned to every waiter of a deduplicated call whose producer panicked.
	ErrProducerPanicked = zerr.New("deduplicated request panicked")

	// ErrFetchFailed is returned when a remote document cannot be fetched.
	ErrFetchFailed = zerr.New("failed to fetch remote document")

	// ErrRequestBuildFailed is returned when an HTTP request cannot be constructed.
	ErrRequestBuildFailed = zerr.New("failed to build request")

	// ErrResponseReadFailed is returned when a response body cannot be read.
	ErrResponseReadFailed = zerr.New("failed to read response body")

	// ErrResolveFailed is returned when a component reference cannot be resolved.
	ErrResolveFailed = zerr.New("failed to resolve component")

	// ErrVersionListFailed is returned when the version candidates for a component cannot be listed.
	ErrVersionListFailed = zerr.New("failed to list component versions")

	// ErrNoVersionCandidates is returned when neither tags nor branches produced any candidate.
	ErrNoVersionCandidates = zerr.New("no version candidates available")

	// ErrCacheLoadFailed is returned when the persisted cache cannot be loaded.
	ErrCacheLoadFailed = zerr.New("failed to load component cache")

	// ErrCachePersistFailed is returned when the cache cannot be checkpointed.
	ErrCachePersistFailed = zerr.New("failed to persist component cache")

	// ErrCacheEncodeFailed is returned when a cache value cannot be encoded.
	ErrCacheEncodeFailed = zerr.New("failed to encode cache value")

	// ErrCacheDecodeFailed is returned when a cache value cannot be decoded.
	ErrCacheDecodeFailed = zerr.New("failed to decode cache value")

	// ErrInvalidPattern is returned when an invalidation pattern cannot be compiled.
	ErrInvalidPattern = zerr.New("invalid invalidation pattern")

	// ErrStoreReadFailed is returned when the durable store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read store")

	// ErrStoreWriteFailed is returned when the durable store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write store")

	// ErrInvalidStoreKey is returned when a store key would escape the store directory.
	ErrInvalidStoreKey = zerr.New("invalid store key")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrNoReferences is returned when a batch command receives no references.
	ErrNoReferences = zerr.New("no component references specified")

	// ErrBatchFailed is returned when at least one reference of a batch failed to resolve.
	// The individual failures have already been reported.
	ErrBatchFailed = zerr.New("one or more components failed to resolve")
)

// NetworkError describes the final classified failure of a remote fetch.
type NetworkError struct {
	// StatusCode is the HTTP status of the last attempt, zero for transport failures.
	StatusCode int
	// TimedOut is set when the last attempt exceeded its per-attempt timeout.
	TimedOut bool
	// URL is the requested location.
	URL string
	// Attempts is the number of attempts performed.
	Attempts int
	// Err is the underlying transport error, if any.
	Err error
}

func (e *NetworkError) Error() string {
	switch {
	case e.TimedOut:
		return fmt.Sprintf("request to %s timed out after %d attempt(s)", e.URL, e.Attempts)
	case e.StatusCode != 0:
		return fmt.Sprintf("request to %s failed with status %d %s",
			e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("request to %s failed", e.URL)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Retryable reports whether the failure class allows another attempt.
func (e *NetworkError) Retryable() bool {
	if e.TimedOut {
		return true
	}
	if e.StatusCode == 0 {
		return e.Err != nil
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// maxSnippetLen bounds the content attached to a ParseError.
const maxSnippetLen = 120

// ParseError reports a document or payload that could not be parsed.
type ParseError struct {
	Reason         string
	ContentSnippet string
	Err            error
}

// NewParseError builds a ParseError, truncating the content to a bounded snippet.
func NewParseError(reason string, content []byte, cause error) *ParseError {
	snippet := content
	if len(snippet) > maxSnippetLen {
		snippet = snippet[:maxSnippetLen]
	}
	return &ParseError{Reason: reason, ContentSnippet: string(snippet), Err: cause}
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Reason, e.Err)
	}
	return "parse error: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// CacheErrorKind classifies cache failures.
type CacheErrorKind string

const (
	// CacheRead marks a failure loading persisted state.
	CacheRead CacheErrorKind = "read"
	// CacheWrite marks a failure checkpointing state.
	CacheWrite CacheErrorKind = "write"
	// CacheCorruption marks persisted state that cannot be decoded.
	CacheCorruption CacheErrorKind = "corruption"
)

// CacheError reports a failure of the component cache.
type CacheError struct {
	Kind CacheErrorKind
	Key  string
	Err  error
}

func (e *CacheError) Error() string {
	msg := "cache " + string(e.Kind) + " error"
	if e.Key != "" {
		msg += " for " + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CacheError) Unwrap() error { return e.Err }

// ComponentNotFoundError is returned when no document exists for a reference.
type ComponentNotFoundError struct {
	Reference string
}

func (e *ComponentNotFoundError) Error() string {
	return "component not found: " + e.Reference
}

// ConfigurationError is returned when a required configuration value is missing or invalid.
type ConfigurationError struct {
	MissingField string
	Reason       string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.MissingField, e.Reason)
	}
	return "configuration error: missing " + e.MissingField
}

// Remediation returns a short suggestion for a user facing failure.
func Remediation(err error) string {
	var (
		netErr      *NetworkError
		parseErr    *ParseError
		cacheErr    *CacheError
		notFoundErr *ComponentNotFoundError
		cfgErr      *ConfigurationError
	)

	switch {
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("set %q in %s or the matching COMPASS_ environment variable", cfgErr.MissingField, ConfigFileName)
	case errors.As(err, &notFoundErr):
		return "check the component path, name and version"
	case errors.As(err, &netErr):
		switch netErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "check access token"
		case http.StatusNotFound:
			return "check the component path, name and version"
		}
		return "retry"
	case errors.As(err, &cacheErr):
		return "reset cache with 'compass cache reset'"
	case errors.As(err, &parseErr):
		return "check that the component document declares a spec block"
	case errors.Is(err, ErrInvalidReference):
		return "use the form instance/path/name[@version]"
	default:
		return "retry"
	}
}
