package sequence

import (
	"slices"

	"github.com/matzehuels/necklace/pkg/groups"
)

// StartOdds returns, per group, the exact probability that a [Builder] opens a
// sequence with one of its items.
//
// The first draw sees every group filed under its full size. If the largest
// group holds at least half of the items it is forced and shares the draw with
// the other groups of that size; otherwise each distinct size is equally
// likely and splits its share among the groups of that size. An infeasible or
// nil set yields nil.
func StartOdds(gs *groups.GroupSet) map[string]float64 {
	if !groups.Feasible(gs) {
		return nil
	}

	bySize := make(map[int][]string)
	for i, size := range gs.Sizes() {
		bySize[size] = append(bySize[size], gs.Group(i).Name)
	}

	sizes := make([]int, 0, len(bySize))
	for s := range bySize {
		sizes = append(sizes, s)
	}
	slices.Sort(sizes)

	if gs.MaxSize()*2 >= gs.Total() {
		sizes = []int{gs.MaxSize()}
	}

	odds := make(map[string]float64, gs.Len())
	for _, s := range sizes {
		names := bySize[s]
		share := 1 / float64(len(sizes)) / float64(len(names))
		for _, name := range names {
			odds[name] = share
		}
	}
	for _, name := range gs.Names() {
		if _, ok := odds[name]; !ok {
			odds[name] = 0
		}
	}
	return odds
}
