package cache

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/compass/internal/adapters/config"
	"go.trai.ch/compass/internal/adapters/filestore"
	"go.trai.ch/compass/internal/adapters/logger"
	"go.trai.ch/compass/internal/adapters/metrics"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
)

// NodeID is the unique identifier for the component cache Graft node.
const NodeID graft.ID = "adapter.cache"

func init() {
	graft.Register(graft.Node[ports.Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, filestore.NodeID, logger.NodeID, metrics.NodeID},
		Run: func(ctx context.Context) (ports.Cache, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.KVStore](ctx)
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

			return New(store,
				WithStoreKey(StoreKeyFor(cfg.CachePath)),
				WithMaxEntries(cfg.MaxCacheEntries),
				WithLogger(log),
				WithMetrics(m),
			)
		},
	})
}

// StoreKeyFor derives the store key from the configured cache file path.
// The file name is kept whole so the store writes exactly that file.
func StoreKeyFor(cachePath string) string {
	return filepath.Base(cachePath)
}
