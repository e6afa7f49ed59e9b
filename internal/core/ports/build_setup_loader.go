package ports

import "go.indexbridge.dev/core/internal/core/domain"

// BuildSetupLoader resolves the effective BuildSetupConfig for a package
// root (section 4.8): built-in defaults, merged with an optional override
// file discovered by walking up from root, merged with a programmatic
// override supplied at construction.
type BuildSetupLoader interface {
	// Load returns the merged BuildSetupConfig for root.
	Load(root string) (domain.BuildSetupConfig, error)
}
