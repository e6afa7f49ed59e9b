package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.indexbridge.dev/core/internal/adapters/logger"
	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
)

// NodeID is the unique identifier for the build-setup loader Graft node.
const NodeID graft.ID = "adapter.build_setup_loader"

func init() {
	graft.Register(graft.Node[ports.BuildSetupLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.BuildSetupLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log, domain.BuildSetupConfig{}), nil
		},
	})
}
