package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.indexbridge.dev/core/internal/core/ports"
)

// ResolverNodeID is the unique identifier for the path resolver Graft node.
const ResolverNodeID graft.ID = "adapter.path_resolver"

func init() {
	graft.Register(graft.Node[ports.PathResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PathResolver, error) {
			return NewPathResolver(), nil
		},
	})
}
