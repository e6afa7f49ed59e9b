package ports

import "context"

// Toolchain identifies the swift toolchain the Preparation Runner invokes.
type Toolchain struct {
	// Path is the absolute path to the toolchain's bin directory, i.e. the
	// directory containing the `swift` executable.
	Path string
}

// ToolchainRegistry resolves the default host toolchain. Discovery itself is
// out of scope for the core (section 1 Non-goals); this interface exists so
// init() can surface ErrCannotDetermineHostToolchain when the caller's
// registry fails, without the core knowing how discovery works.
type ToolchainRegistry interface {
	DefaultToolchain(ctx context.Context) (Toolchain, error)
}
