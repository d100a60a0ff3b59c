package groups

import "github.com/matzehuels/necklace/pkg/errors"

// Feasible reports whether the items of gs can be ordered so that no two
// items of the same group are adjacent.
//
// The test is 2*max <= n: a group holding more than half of the items must,
// by pigeonhole over the gaps left by the other items, end up with two of its
// members side by side. For a single partition constraint the threshold is
// both necessary and sufficient. A nil set is trivially infeasible.
func Feasible(gs *GroupSet) bool {
	if gs == nil {
		return false
	}
	return 2*gs.MaxSize() <= gs.Total()
}

// CheckFeasible returns an INFEASIBLE_INPUT error naming the offending group
// when [Feasible] is false, and nil otherwise.
func CheckFeasible(gs *GroupSet) error {
	if gs == nil {
		return errors.New(errors.ErrCodeInvalidInput, "group set is nil")
	}
	if Feasible(gs) {
		return nil
	}
	return errors.New(errors.ErrCodeInfeasible,
		"group %q holds %d of %d items; at most %d allowed",
		gs.Largest(), gs.MaxSize(), gs.Total(), gs.Total()/2)
}
