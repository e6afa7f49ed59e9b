package domain

// BuildGraph is the immutable result of one successful package load: the
// full target set plus the lookup maps the resolver serves queries from.
// The resolver swaps a *BuildGraph pointer atomically on reload so readers
// never observe a half-updated graph (section 3 invariant: either all three
// maps reflect the new graph, or none do).
type BuildGraph struct {
	// Targets holds every target keyed by its ConfiguredTarget identity; the
	// load order is kept in each Target's Index.
	Targets map[ConfiguredTarget]*Target

	// FileToTarget maps an absolute source path to the target that lists it.
	FileToTarget map[string]ConfiguredTarget

	// SourceDirToTarget maps an absolute source-root directory to its target,
	// used for ancestor-directory fallback lookups.
	SourceDirToTarget map[string]ConfiguredTarget

	// ManifestPath is the absolute path to the package manifest that
	// produced this graph.
	ManifestPath string

	// Root is the workspace root the graph was loaded from.
	Root string
}

// NewBuildGraph returns an empty graph ready to be populated by a loader.
func NewBuildGraph(root, manifestPath string) *BuildGraph {
	return &BuildGraph{
		Targets:           make(map[ConfiguredTarget]*Target),
		FileToTarget:      make(map[string]ConfiguredTarget),
		SourceDirToTarget: make(map[string]ConfiguredTarget),
		ManifestPath:      manifestPath,
		Root:              root,
	}
}

// TargetCount returns the number of targets in the graph, excluding the
// manifest sentinel.
func (g *BuildGraph) TargetCount() int {
	return len(g.Targets)
}

// Target looks up a target by its configured identity.
func (g *BuildGraph) Target(ct ConfiguredTarget) (*Target, bool) {
	t, ok := g.Targets[ct]
	return t, ok
}

// AllTargets returns every target in the graph, unsorted.
func (g *BuildGraph) AllTargets() []*Target {
	out := make([]*Target, 0, len(g.Targets))
	for _, t := range g.Targets {
		out = append(out, t)
	}
	return out
}

// AllConfiguredTargets returns every configured-target key in the graph,
// unsorted.
func (g *BuildGraph) AllConfiguredTargets() []ConfiguredTarget {
	out := make([]ConfiguredTarget, 0, len(g.Targets))
	for ct := range g.Targets {
		out = append(out, ct)
	}
	return out
}
