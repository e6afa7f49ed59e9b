package resolver

import (
	"slices"
	"strings"

	"go.indexbridge.dev/core/internal/core/domain"
)

// chooseSubstitute returns the lexicographically least source path in
// sources, the template used to synthesize build settings for a requested
// file the target does not itself list (e.g. a header).
func chooseSubstitute(sources []domain.InternedString) (string, bool) {
	if len(sources) == 0 {
		return "", false
	}
	paths := make([]string, len(sources))
	for i, s := range sources {
		paths[i] = s.String()
	}
	return slices.Min(paths), true
}

// patchArguments replaces every occurrence of substitutePath within args
// with resolvedRequestedPath. Per the documented asymmetry, the match is
// against the substitute's unresolved source path, but the value spliced in
// is the (symlink-)resolved form of the file actually requested.
func patchArguments(args []string, substitutePath, resolvedRequestedPath string) []string {
	patched := make([]string, len(args))
	for i, a := range args {
		patched[i] = strings.ReplaceAll(a, substitutePath, resolvedRequestedPath)
	}
	return patched
}
