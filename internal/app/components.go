package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.indexbridge.dev/core/internal/adapters/config"
	"go.indexbridge.dev/core/internal/adapters/fs"
	"go.indexbridge.dev/core/internal/adapters/logger"
	"go.indexbridge.dev/core/internal/adapters/shell"
	"go.indexbridge.dev/core/internal/adapters/swiftpm"
	"go.indexbridge.dev/core/internal/adapters/toolchain"
	"go.indexbridge.dev/core/internal/adapters/watcher"
	"go.indexbridge.dev/core/internal/core/ports"
)

// Components is the Graft-resolved root object: every adapter the CLI
// entry point needs, plus the App built from them.
type Components struct {
	App    *App
	Logger ports.Logger
}

// ComponentsNodeID is the unique identifier for the root Components node.
const ComponentsNodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			swiftpm.NodeID,
			fs.ResolverNodeID,
			shell.NodeID,
			watcher.NodeID,
			toolchain.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			configLoader, err := graft.Dep[ports.BuildSetupLoader](ctx)
			if err != nil {
				return nil, err
			}
			packageLoader, err := graft.Dep[ports.PackageLoader](ctx)
			if err != nil {
				return nil, err
			}
			paths, err := graft.Dep[ports.PathResolver](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			watch, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			toolchainRegistry, err := graft.Dep[ports.ToolchainRegistry](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    New(configLoader, packageLoader, paths, executor, watch, toolchainRegistry, log),
				Logger: log,
			}, nil
		},
	})
}
