// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.indexbridge.dev/core/internal/adapters/config"
	_ "go.indexbridge.dev/core/internal/adapters/fs"
	_ "go.indexbridge.dev/core/internal/adapters/logger"
	_ "go.indexbridge.dev/core/internal/adapters/shell"
	_ "go.indexbridge.dev/core/internal/adapters/swiftpm"
	_ "go.indexbridge.dev/core/internal/adapters/toolchain"
	_ "go.indexbridge.dev/core/internal/adapters/watcher"
	// Register the root app component node.
	_ "go.indexbridge.dev/core/internal/app"
)
