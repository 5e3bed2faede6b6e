package parser

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/compass/internal/core/ports"
)

// NodeID is the unique identifier for the spec parser Graft node.
const NodeID graft.ID = "adapter.parser"

func init() {
	graft.Register(graft.Node[ports.SpecParser]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SpecParser, error) {
			return New(), nil
		},
	})
}
