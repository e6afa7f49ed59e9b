package resolver

import (
	"slices"

	"go.indexbridge.dev/core/internal/core/domain"
)

// TopologicalSort stable-sorts targets by their stored topological index;
// targets the graph doesn't know about sort to the end, in input order
// amongst themselves.
func TopologicalSort(graph *domain.BuildGraph, targets []domain.ConfiguredTarget) []domain.ConfiguredTarget {
	indexOf := func(ct domain.ConfiguredTarget) (int, bool) {
		t, ok := graph.Target(ct)
		if !ok {
			return 0, false
		}
		return t.Index, true
	}

	sorted := slices.Clone(targets)
	slices.SortStableFunc(sorted, func(a, b domain.ConfiguredTarget) int {
		ai, aok := indexOf(a)
		bi, bok := indexOf(b)
		switch {
		case aok && bok:
			return ai - bi
		case aok && !bok:
			return -1
		case !aok && bok:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// TargetsDependingOn returns every known target whose topological index
// exceeds the minimum index among targets, a conservative over-approximation
// of "depends (transitively) on any of targets". If any input target lacks
// an index, every known target is returned, since no safe lower bound can be
// established.
func TargetsDependingOn(graph *domain.BuildGraph, targets []domain.ConfiguredTarget) []domain.ConfiguredTarget {
	minIndex := -1
	for _, ct := range targets {
		t, ok := graph.Target(ct)
		if !ok {
			return slices.Clone(graph.AllConfiguredTargets())
		}
		if minIndex == -1 || t.Index < minIndex {
			minIndex = t.Index
		}
	}

	var result []domain.ConfiguredTarget
	for _, ct := range graph.AllConfiguredTargets() {
		t, ok := graph.Target(ct)
		if !ok {
			continue
		}
		if t.Index > minIndex {
			result = append(result, ct)
		}
	}
	return result
}

// SortByFallbackKey sorts targets by (target_id, run_destination_id),
// the deterministic fallback used when a topological sort produces a set
// that does not match its inputs.
func SortByFallbackKey(targets []domain.ConfiguredTarget) []domain.ConfiguredTarget {
	sorted := slices.Clone(targets)
	slices.SortFunc(sorted, func(a, b domain.ConfiguredTarget) int {
		if c := compareInterned(a.TargetID, b.TargetID); c != 0 {
			return c
		}
		return compareInterned(a.RunDestinationID, b.RunDestinationID)
	})
	return sorted
}

func compareInterned(a, b domain.InternedString) int {
	as, bs := a.String(), b.String()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}
