package ports

import (
	"context"

	"go.trai.ch/compass/internal/core/domain"
)

// ComponentResolver is the entry point used by the application layer.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type ComponentResolver interface {
	// Resolve returns the metadata of the component named by ref.
	Resolve(ctx context.Context, ref string) (domain.ParsedComponent, error)
	// ResolveAll resolves refs with bounded parallelism, one result per reference.
	ResolveAll(ctx context.Context, refs []string) ([]domain.BatchResult, error)
	// ListVersions returns the version candidates of a component in selection order.
	ListVersions(ctx context.Context, instance, path, name string) ([]string, error)
	// Invalidate drops cached entries matching pattern and reports how many were removed.
	Invalidate(pattern string) (int, error)
	// Reset drops every cached entry.
	Reset() error
	// Stats returns cache usage counters.
	Stats() CacheStats
}
