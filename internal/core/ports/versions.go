package ports

import (
	"context"

	"go.trai.ch/compass/internal/core/domain"
)

// VersionResolver lists and selects component versions.
//
//go:generate go run go.uber.org/mock/mockgen -source=versions.go -destination=mocks/mock_versions.go -package=mocks
type VersionResolver interface {
	// List fetches tag and branch candidates, tolerating the failure of one source.
	List(ctx context.Context, ref domain.ComponentReference) (domain.VersionList, error)

	// Select picks the best candidate for ref from list.
	Select(ref domain.ComponentReference, list domain.VersionList) (string, error)
}
