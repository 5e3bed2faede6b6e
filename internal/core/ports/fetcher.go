package ports

import (
	"context"
	"net/http"
)

// HTTPDoer is the raw network primitive consumed by the fetch client.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchRequest describes a single remote document request.
type FetchRequest struct {
	// URL is the absolute location to GET.
	URL string
	// Headers are added to every attempt.
	Headers map[string]string
}

// Fetcher performs network fetches with timeout and classified retry.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch returns the body of a successful response.
	Fetch(ctx context.Context, req FetchRequest) ([]byte, error)

	// FetchJSON decodes the body of a successful response into v.
	FetchJSON(ctx context.Context, req FetchRequest, v any) error
}

// Deduplicator collapses concurrent fetches sharing a key into one call.
type Deduplicator interface {
	// Do invokes fn at most once per key while a call for key is in flight.
	// shared reports whether the result was delivered to more than one caller.
	Do(ctx context.Context, key string, fn func(context.Context) ([]byte, error)) (data []byte, shared bool, err error)
}
