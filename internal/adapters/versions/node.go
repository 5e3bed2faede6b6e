package versions

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/compass/internal/adapters/config"
	"go.trai.ch/compass/internal/adapters/fetch"
	"go.trai.ch/compass/internal/adapters/gitlab"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
)

// NodeID is the unique identifier for the version resolver Graft node.
const NodeID graft.ID = "adapter.versions"

func init() {
	graft.Register(graft.Node[ports.VersionResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, fetch.NodeID},
		Run: func(ctx context.Context) (ports.VersionResolver, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}
			return New(fetcher, gitlab.New(cfg), PolicyFromConfig(cfg)), nil
		},
	})
}
