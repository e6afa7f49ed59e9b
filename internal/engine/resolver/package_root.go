package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"go.indexbridge.dev/core/internal/core/domain"
)

// DiscoverPackageRoot walks upward from start until it finds a directory
// containing a manifest file whose contents mention the package-description
// sentinel, returning that directory. It returns ok=false once the
// filesystem root is reached without a match, mirroring the upward-walk
// idiom used to locate a project's configuration file.
func DiscoverPackageRoot(start string) (dir string, ok bool) {
	current := start
	for {
		manifestPath := filepath.Join(current, domain.ManifestFileName)
		if contents, err := os.ReadFile(manifestPath); err == nil {
			if strings.Contains(string(contents), domain.ManifestSentinel) {
				return current, true
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}
