package ports

// PathResolver resolves symlinks in a file path. Resolution may be
// expensive (stat + readlink chains), so the resolver is expected to cache
// the result; callers never need to memoize themselves (section 9, Symlink
// memoization design note).
type PathResolver interface {
	// Resolve returns the symlink-resolved absolute form of path. It
	// returns ErrSymlinkResolutionFailure (wrapped) if resolution fails;
	// callers should treat that as "settings unavailable for this file",
	// not as a fatal error.
	Resolve(path string) (string, error)
}
