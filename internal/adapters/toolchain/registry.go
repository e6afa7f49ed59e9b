// Package toolchain resolves the host swift toolchain used to invoke
// `swift package describe` and `swiftc` during preparation.
package toolchain

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
)

// envToolchainPath is the environment variable a caller can set to override
// PATH-based discovery with an explicit toolchain bin directory.
const envToolchainPath = "SWIFT_TOOLCHAIN_PATH"

// Registry resolves the default host toolchain by checking
// SWIFT_TOOLCHAIN_PATH, then PATH, for a `swift` executable.
type Registry struct {
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// NewRegistry creates a new Registry.
func NewRegistry() *Registry {
	return &Registry{lookPath: exec.LookPath, getenv: os.Getenv}
}

// DefaultToolchain implements ports.ToolchainRegistry.
func (r *Registry) DefaultToolchain(_ context.Context) (ports.Toolchain, error) {
	if override := r.getenv(envToolchainPath); override != "" {
		candidate := filepath.Join(override, "swift")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return ports.Toolchain{Path: override}, nil
		}
		return ports.Toolchain{}, domain.ErrCannotDetermineHostToolchain
	}

	swiftPath, err := r.lookPath("swift")
	if err != nil {
		return ports.Toolchain{}, domain.ErrCannotDetermineHostToolchain
	}

	resolved, err := filepath.EvalSymlinks(swiftPath)
	if err != nil {
		resolved = swiftPath
	}

	return ports.Toolchain{Path: filepath.Dir(resolved)}, nil
}
