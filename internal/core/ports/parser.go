package ports

import "go.trai.ch/compass/internal/core/domain"

// SpecParser extracts component metadata from a raw document.
type SpecParser interface {
	// Parse parses a document, wrapping any failure in a *domain.ParseError.
	Parse(raw []byte) (domain.ParsedSpec, error)

	// TryParse parses a document without failing.
	TryParse(raw []byte) domain.ParseResult
}
