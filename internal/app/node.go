package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/compass/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/compass/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/compass/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/compass/internal/engine/resolver"
)

const (
	// AppNodeID identifies the App node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID identifies the node handing the App and logger to cmd/compass.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{resolver.NodeID, logger.NodeID, config.NodeID, metrics.NodeID},
		Run:       buildApp,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run:       buildComponents,
	})
}

func buildApp(ctx context.Context) (*App, error) {
	res, err := graft.Dep[*resolver.Resolver](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := graft.Dep[domain.Config](ctx)
	if err != nil {
		return nil, err
	}
	m, err := graft.Dep[*metrics.Metrics](ctx)
	if err != nil {
		return nil, err
	}
	return New(res, log, cfg, m), nil
}

func buildComponents(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return NewComponents(a, log), nil
}
