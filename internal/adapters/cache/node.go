package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hoist/internal/adapters/config"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports"
)

// NodeID is the unique identifier for the descriptor cache Graft node.
const NodeID graft.ID = "adapter.descriptor_cache"

func init() {
	graft.Register(graft.Node[ports.DescriptorCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.DescriptorCache, error) {
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			store, err := NewStore(settings.CacheDir, WithMaxAge(settings.MaxAge))
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
