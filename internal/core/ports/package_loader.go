package ports

import "go.indexbridge.dev/core/internal/core/domain"

// PackageDescription is what the opaque package loader reports back: the
// target graph plus a function that turns a target id into the compiler
// arguments for one of its sources. The loader (in this repo, an adapter
// that shells out to `swift package describe --type json`) treats SwiftPM
// itself as out of scope; it never links the package manager as a library.
type PackageDescription struct {
	Targets []LoadedTarget
	// CompileArguments returns the compiler argument vector (not including
	// working directory) for a given target id and one of its source
	// files, as reported by the build description the loader constructed.
	CompileArguments func(targetID, sourcePath string) ([]string, error)
	// InterpreterFlags returns the flags used to interpret the manifest
	// itself (e.g. `-swift-version`), keyed by nothing beyond "the package"
	// since a workspace has exactly one manifest per graph.
	InterpreterFlags []string
}

// LoadedTarget is one target as reported by the package loader, before the
// resolver assigns it a topological index.
type LoadedTarget struct {
	ID           string
	Sources      []string
	Dependencies []string
}

// PackageLoader is the opaque package-manager collaborator: load a package
// rooted at root, optionally forcing already-resolved dependency versions.
type PackageLoader interface {
	// Load parses the manifest at root and resolves dependencies.
	// forceResolvedVersions is true unless running in index-only mode, in
	// which case unresolved dependencies may be fetched (section 4.3).
	Load(root string, setup domain.BuildSetupConfig, forceResolvedVersions bool) (*PackageDescription, error)
}
