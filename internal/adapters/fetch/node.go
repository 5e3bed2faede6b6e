package fetch

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	"go.trai.ch/compass/internal/adapters/config"
	"go.trai.ch/compass/internal/adapters/logger"
	"go.trai.ch/compass/internal/adapters/metrics"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
)

// NodeID is the unique identifier for the fetch client Graft node.
const NodeID graft.ID = "adapter.fetch"

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID, metrics.NodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
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

			return New(http.DefaultClient,
				WithRetries(cfg.RetryAttempts),
				WithTimeout(cfg.Timeout),
				WithBaseDelay(cfg.RetryBaseDelay),
				WithLogger(log),
				WithMetrics(m),
			), nil
		},
	})
}
