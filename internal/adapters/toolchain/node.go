package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.indexbridge.dev/core/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain registry Graft node.
const NodeID graft.ID = "adapter.toolchain_registry"

func init() {
	graft.Register(graft.Node[ports.ToolchainRegistry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ToolchainRegistry, error) {
			return NewRegistry(), nil
		},
	})
}
