package detect

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hoist/internal/adapters/cache"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hoist/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hoist/internal/core/ports"
)

// NodeID is the unique identifier for the resolver Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cache.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Resolver, error) {
			store, err := graft.Dep[ports.DescriptorCache](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(store, log), nil
		},
	})
}
