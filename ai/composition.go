package ai

import "sort"

// counterMatrix maps an observed enemy unit kind id to the kind id a harder
// difficulty prefers to train in response. It is a placeholder table keyed
// the same way templateFor's unit stat catalog is — a real content pack
// supplies the actual kind ids; the shape is what matters here.
var counterMatrix = map[uint32]uint32{
	1: 2, // light infantry -> countered by kind 2 (splash/AoE)
	2: 3, // splash -> countered by kind 3 (mobile skirmisher)
	3: 1, // mobile skirmisher -> countered by kind 1 (light infantry)
}

// consultCounters is only used by hard and above difficulties (spec.md
// §4.7 "consulted by harder difficulties"); easier tiers ignore the
// observed mix entirely and fall through to the declarative build order.
func consultCounters(enabled bool, enemyKindCounts map[uint32]int, fallback uint32) uint32 {
	if !enabled || len(enemyKindCounts) == 0 {
		return fallback
	}
	kinds := make([]uint32, 0, len(enemyKindCounts))
	for kind := range enemyKindCounts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var mostCommon uint32
	var best int
	for _, kind := range kinds {
		if count := enemyKindCounts[kind]; count > best {
			mostCommon, best = kind, count
		}
	}
	if counter, ok := counterMatrix[mostCommon]; ok {
		return counter
	}
	return fallback
}
