package filestore

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/compass/internal/adapters/config"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
)

// NodeID is the unique identifier for the file store Graft node.
const NodeID graft.ID = "adapter.filestore"

func init() {
	graft.Register(graft.Node[ports.KVStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.KVStore, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(filepath.Dir(cfg.CachePath)), nil
		},
	})
}
