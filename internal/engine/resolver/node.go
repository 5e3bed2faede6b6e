package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/compass/internal/adapters/cache"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/compass/internal/adapters/config"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/compass/internal/adapters/dedup"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/compass/internal/adapters/fetch"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/compass/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/compass/internal/adapters/metrics"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/compass/internal/adapters/parser"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/compass/internal/adapters/versions" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
)

// NodeID is the unique identifier for the component resolver Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cache.NodeID,
			dedup.NodeID,
			fetch.NodeID,
			parser.NodeID,
			versions.NodeID,
			logger.NodeID,
			metrics.NodeID,
		},
		Run: func(ctx context.Context) (*Resolver, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.Cache](ctx)
			if err != nil {
				return nil, err
			}

			deduplicator, err := graft.Dep[ports.Deduplicator](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}

			specParser, err := graft.Dep[ports.SpecParser](ctx)
			if err != nil {
				return nil, err
			}

			versionResolver, err := graft.Dep[ports.VersionResolver](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			m, err := graft.Dep[*metrics.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			return New(
				cfg,
				store,
				deduplicator,
				fetcher,
				specParser,
				versionResolver,
				log,
				WithMetrics(m),
			), nil
		},
	})
}
