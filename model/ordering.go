package model

import "sort"

// OrderedSync computes the order in which the given media types must be
// synchronised: a topological sort over (dependent -> required) edges,
// with ties broken by the fixed group order (§3.1). Media types that
// share no dependency edges are ordered by their group position, then
// alphabetically for determinism.
func OrderedSync(types []MediaType) []MediaType {
	set := make(map[MediaType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}

	// indegree counts, over edges restricted to the input set: an edge
	// dependent->required means required must come first, so we sort
	// required types before their dependents (required has "indegree"
	// contributions from dependents pointing at it is backwards from
	// Kahn's algorithm bookkeeping below; we model it directly as
	// "required must precede dependent").
	remaining := make(map[MediaType]bool, len(types))
	for t := range set {
		remaining[t] = true
	}

	var ordered []MediaType
	for len(remaining) > 0 {
		// Candidates: media types whose required dependencies (that are
		// also present in the set) have already been placed.
		var candidates []MediaType
		for t := range remaining {
			ready := true
			for _, dep := range dependencyEdges[t] {
				if set[dep] && remaining[dep] {
					ready = false
					break
				}
			}
			if ready {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) == 0 {
			// Cycle guard: shouldn't happen with the default registry,
			// but fall back to remaining in a deterministic order
			// rather than looping forever.
			for t := range remaining {
				candidates = append(candidates, t)
			}
		}

		sort.Slice(candidates, func(i, j int) bool {
			return lessByGroup(candidates[i], candidates[j])
		})

		next := candidates[0]
		ordered = append(ordered, next)
		delete(remaining, next)
	}

	return ordered
}

// OrderedCleanup returns the reverse of OrderedSync, used for the
// Cleanup and Removal task stages (§4.E, §5).
func OrderedCleanup(types []MediaType) []MediaType {
	fwd := OrderedSync(types)
	rev := make([]MediaType, len(fwd))
	for i, t := range fwd {
		rev[len(fwd)-1-i] = t
	}
	return rev
}

// lessByGroup orders a before b using the fixed group position first,
// then falls back to lexicographic order for determinism among media
// types not in any group.
func lessByGroup(a, b MediaType) bool {
	ga, pa := groupIndex(a)
	gb, pb := groupIndex(b)
	switch {
	case ga != gb:
		return ga < gb
	case pa != pb:
		return pa < pb
	default:
		return a < b
	}
}

// groupIndex returns (groupRank, positionWithinGroup) for t. Media types
// outside any known group sort after all grouped types, in a single
// synthetic group ranked last.
func groupIndex(t MediaType) (int, int) {
	for gi, g := range groupOrder {
		for pi, m := range g {
			if m == t {
				return gi, pi
			}
		}
	}
	return len(groupOrder), 0
}
