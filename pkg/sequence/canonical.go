package sequence

import "github.com/matzehuels/necklace/pkg/errors"

// Canonicalize returns the rotation of s that starts with the item labelled
// anchor, so that rotations of one ring share a canonical form and a [Sequence.Key].
//
// The anchor must occur exactly once. An absent or repeated anchor is a
// PRECONDITION_VIOLATION: callers only canonicalize with a label known to be
// present, such as the sole member of a fixed group. s is not modified.
func Canonicalize(s Sequence, anchor string) (Sequence, error) {
	pivot := -1
	for i, it := range s {
		if it.Label != anchor {
			continue
		}
		if pivot != -1 {
			return nil, errors.New(errors.ErrCodePrecondition,
				"anchor %q occurs at positions %d and %d", anchor, pivot, i)
		}
		pivot = i
	}
	if pivot == -1 {
		return nil, errors.New(errors.ErrCodePrecondition, "anchor %q not in sequence", anchor)
	}
	return Rotate(s, pivot), nil
}
