package sequence

import (
	"strings"

	"github.com/matzehuels/necklace/pkg/groups"
)

// Sequence is the ordered output of one construction trial: a permutation of
// every item of the input group set.
type Sequence []groups.Item

// Labels returns the item labels in order.
func (s Sequence) Labels() []string {
	out := make([]string, len(s))
	for i, it := range s {
		out[i] = it.Label
	}
	return out
}

// Groups returns the group tag of each position.
func (s Sequence) Groups() []string {
	out := make([]string, len(s))
	for i, it := range s {
		out[i] = it.Group
	}
	return out
}

// Key concatenates the labels with no separator. Applied to a canonicalized
// sequence it identifies the whole rotation class for frequency counting.
func (s Sequence) Key() string {
	var b strings.Builder
	for _, it := range s {
		b.WriteString(it.Label)
	}
	return b.String()
}

// String renders the labels space separated.
func (s Sequence) String() string {
	return strings.Join(s.Labels(), " ")
}

// Head returns the first item, or false for an empty sequence.
func (s Sequence) Head() (groups.Item, bool) {
	if len(s) == 0 {
		return groups.Item{}, false
	}
	return s[0], true
}

// IndexOf returns the position of the first item with the given label, or -1.
func (s Sequence) IndexOf(label string) int {
	for i, it := range s {
		if it.Label == label {
			return i
		}
	}
	return -1
}

// Rotate returns a fresh copy shifted left by k positions, so that s[k]
// becomes the first element. k may be negative or exceed len(s).
func Rotate(s Sequence, k int) Sequence {
	n := len(s)
	out := make(Sequence, n)
	if n == 0 {
		return out
	}
	k = ((k % n) + n) % n
	for i := 0; i < n; i++ {
		out[i] = s[(k+i)%n]
	}
	return out
}
