// Package fs provides the path-resolution adapter.
package fs

import (
	"path/filepath"
	"sync"

	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PathResolver = (*PathResolver)(nil)

// PathResolver implements ports.PathResolver using filepath.EvalSymlinks,
// caching results since the specification requires callers never memoize
// symlink resolution themselves.
type PathResolver struct {
	mu    sync.RWMutex
	cache map[string]string
}

// NewPathResolver creates a new PathResolver.
func NewPathResolver() *PathResolver {
	return &PathResolver{cache: make(map[string]string)}
}

// Resolve returns the symlink-resolved absolute form of path, caching the
// result for subsequent calls.
func (r *PathResolver) Resolve(path string) (string, error) {
	r.mu.RLock()
	cached, ok := r.cache[path]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrSymlinkResolutionFailure.Error()), "path", path)
	}

	r.mu.Lock()
	r.cache[path] = resolved
	r.mu.Unlock()

	return resolved, nil
}

// Invalidate drops path's cached resolution, if any, so a later Resolve call
// re-walks the symlink chain. No code path in this module calls it; the
// watch loop leaves cached resolutions in place.
func (r *PathResolver) Invalidate(path string) {
	r.mu.Lock()
	delete(r.cache, path)
	r.mu.Unlock()
}
