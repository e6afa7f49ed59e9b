package indexmanager

import (
	"slices"

	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/engine/resolver"
)

// groupByTarget partitions files by their canonical configured target,
// dropping (and returning separately) files with no mapped target.
type resolverTargetLookup interface {
	ConfiguredTargets(uri string) ([]domain.ConfiguredTarget, error)
}

func groupByTarget(r resolverTargetLookup, files []string) (groups map[domain.ConfiguredTarget][]string, dropped []string) {
	groups = make(map[domain.ConfiguredTarget][]string)
	for _, f := range files {
		targets, err := r.ConfiguredTargets("file://" + f)
		if err != nil || len(targets) == 0 {
			dropped = append(dropped, f)
			continue
		}
		ct := targets[0]
		groups[ct] = append(groups[ct], f)
	}
	return groups, dropped
}

// resolverTopoSort is the subset of the resolver's surface the scheduling
// algorithm's sort step needs.
type resolverTopoSort interface {
	TopologicalSort(targets []domain.ConfiguredTarget) []domain.ConfiguredTarget
}

// sortTargetsWithFallback topologically sorts targets using the resolver's
// sort, falling back to the deterministic (target_id, run_destination_id)
// order if the sort fails to return every input target exactly once (the
// sanity check from section 4.4's scheduling algorithm, step 3).
func sortTargetsWithFallback(r resolverTopoSort, targets []domain.ConfiguredTarget, logger interface {
	Warn(string, ...any)
}) []domain.ConfiguredTarget {
	sorted := r.TopologicalSort(targets)
	if sameSet(sorted, targets) {
		return sorted
	}
	if logger != nil {
		logger.Warn("topological sort produced a mismatched target set, falling back to deterministic order")
	}
	return resolver.SortByFallbackKey(targets)
}

func sameSet(a, b []domain.ConfiguredTarget) bool {
	if len(a) != len(b) {
		return false
	}
	ac := slices.Clone(a)
	bc := slices.Clone(b)
	slices.SortFunc(ac, compareConfiguredTarget)
	slices.SortFunc(bc, compareConfiguredTarget)
	return slices.Equal(ac, bc)
}

func compareConfiguredTarget(x, y domain.ConfiguredTarget) int {
	if c := compareStr(x.TargetID.String(), y.TargetID.String()); c != 0 {
		return c
	}
	return compareStr(x.RunDestinationID.String(), y.RunDestinationID.String())
}

func compareStr(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// partitionBatches splits sorted targets into consecutive groups of size.
// The current design uses size=1; widening to half the CPU count is
// permitted by the specification but not yet exercised.
func partitionBatches(sorted []domain.ConfiguredTarget, size int) [][]domain.ConfiguredTarget {
	if size <= 0 {
		size = 1
	}
	var batches [][]domain.ConfiguredTarget
	for i := 0; i < len(sorted); i += size {
		end := min(i+size, len(sorted))
		batches = append(batches, sorted[i:end])
	}
	return batches
}
