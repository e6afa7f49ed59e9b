package domain

import "path/filepath"

const (
	// ManifestFileName is the package manifest's expected basename.
	ManifestFileName = "Package.swift"

	// ManifestSentinel is the substring package-root discovery requires a
	// candidate manifest file to contain before it is accepted; it rules
	// out unrelated files that happen to be named Package.swift.
	ManifestSentinel = "PackageDescription"

	// WorkspaceStateDirName is the internal workspace directory this repo
	// uses for its own scratch state (distinct from the build tool's own
	// scratch/build directory, which BuildSetupConfig.ScratchPath controls).
	WorkspaceStateDirName = ".indexcore"

	// OverrideConfigFileName is the optional build-setup override file
	// discovered by walking up from the package root (section 4.8).
	OverrideConfigFileName = ".indexcore.yaml"

	// DefaultScratchDirName is used when BuildSetupConfig.ScratchPath is
	// empty and the caller did not request index-only isolation.
	DefaultScratchDirName = ".build"

	// IndexOnlyScratchDirName isolates index-only builds from the user's
	// normal build outputs (section 1, "Index-only mode").
	IndexOnlyScratchDirName = ".build/index-build"

	// DirPerm is applied to directories this repo creates.
	DirPerm = 0o750

	// FilePerm is applied to files this repo writes.
	FilePerm = 0o644
)

// DefaultScratchPath returns the scratch directory for a workspace root,
// choosing the index-only location when indexOnly is set.
func DefaultScratchPath(root string, indexOnly bool) string {
	if indexOnly {
		return filepath.Join(root, IndexOnlyScratchDirName)
	}
	return filepath.Join(root, DefaultScratchDirName)
}
