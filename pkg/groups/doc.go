// Package groups describes the input of constrained sequencing: disjoint groups
// of labeled items, and the feasibility test deciding whether the items can be
// lined up with no two members of one group side by side.
//
// # Construction
//
// A [GroupSet] is only created through [New], [FromLabels] or [Parse], which
// reject empty groups, duplicate labels and mismatched group tags:
//
//	gs, err := groups.Parse("A1,A2,A3,A4 B1,B2,B3 C1")
//	if err != nil {
//	    return err
//	}
//	if !groups.Feasible(gs) {
//	    // skip construction and report
//	}
//
// # Immutability
//
// A GroupSet never changes after construction and all accessors return copies.
// Sequence builders take their own working copy of the items, so one GroupSet
// can be shared by any number of concurrent trials.
package groups
