package ports

import "go.trai.ch/compass/internal/core/domain"

// ConfigLoader defines the interface for loading the resolver configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the configuration starting at cwd, applies environment
	// overrides and returns a validated configuration.
	Load(cwd string) (domain.Config, error)
}
