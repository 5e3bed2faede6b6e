package dedup

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/compass/internal/adapters/metrics"
	"go.trai.ch/compass/internal/core/ports"
)

// NodeID is the unique identifier for the request deduplicator Graft node.
const NodeID graft.ID = "adapter.dedup"

func init() {
	graft.Register(graft.Node[ports.Deduplicator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{metrics.NodeID},
		Run: func(ctx context.Context) (ports.Deduplicator, error) {
			m, err := graft.Dep[*metrics.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			return New[[]byte](WithObserver(MetricsObserver{Metrics: m})), nil
		},
	})
}

// MetricsObserver reports Group activity to prometheus collectors.
type MetricsObserver struct {
	Metrics *metrics.Metrics
}

// Started increments the in-flight gauge.
func (o MetricsObserver) Started() { o.Metrics.DedupInFlight.Inc() }

// Finished decrements the in-flight gauge.
func (o MetricsObserver) Finished() { o.Metrics.DedupInFlight.Dec() }

// Joined counts a caller that reused an in-flight request.
func (o MetricsObserver) Joined() { o.Metrics.DedupShared.Inc() }
