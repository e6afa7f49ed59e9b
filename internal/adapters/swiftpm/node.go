package swiftpm

import (
	"context"

	"github.com/grindlemire/graft"
	"go.indexbridge.dev/core/internal/adapters/logger"
	"go.indexbridge.dev/core/internal/adapters/shell"
	"go.indexbridge.dev/core/internal/adapters/toolchain"
	"go.indexbridge.dev/core/internal/core/ports"
)

// NodeID is the unique identifier for the package loader Graft node.
const NodeID graft.ID = "adapter.package_loader"

func init() {
	graft.Register(graft.Node[ports.PackageLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, toolchain.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.PackageLoader, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			registry, err := graft.Dep[ports.ToolchainRegistry](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(executor, registry, log), nil
		},
	})
}
