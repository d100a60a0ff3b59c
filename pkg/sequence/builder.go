package sequence

import (
	"math/rand/v2"

	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
)

// noGroup marks the absence of a pending group before the first draw.
const noGroup = -1

// Builder constructs random sequences in which no two neighbours share a
// group. A Builder owns its working state and random source, so one Builder
// per worker can share a single [groups.GroupSet] with any number of others.
//
// The zero value is not usable - use [NewBuilder].
type Builder struct {
	gs    *groups.GroupSet
	rng   *rand.Rand
	base  [][]groups.Item
	index *bucketIndex

	forced int // forced draws in the last sequence
}

// NewBuilder prepares a builder for gs drawing from rng.
//
// Building from an infeasible set is a programmer error: callers must gate on
// [groups.Feasible] first. NewBuilder fails fast with PRECONDITION_VIOLATION
// (wrapping the INFEASIBLE_INPUT cause) instead of producing sequences that
// would break the adjacency constraint.
func NewBuilder(gs *groups.GroupSet, rng *rand.Rand) (*Builder, error) {
	if gs == nil {
		return nil, errors.New(errors.ErrCodePrecondition, "group set is nil")
	}
	if rng == nil {
		return nil, errors.New(errors.ErrCodePrecondition, "random source is nil")
	}
	if err := groups.CheckFeasible(gs); err != nil {
		return nil, errors.Wrap(errors.ErrCodePrecondition, err, "cannot build sequence")
	}

	base := make([][]groups.Item, gs.Len())
	for i := range base {
		base[i] = gs.Group(i).Items
	}

	return &Builder{
		gs:    gs,
		rng:   rng,
		base:  base,
		index: newBucketIndex(gs.Len()),
	}, nil
}

// Next builds one sequence.
//
// Each step draws one item:
//  1. If the largest remaining group holds at least half of the unplaced
//     items, its size is forced; otherwise a size is picked uniformly among
//     the sizes present.
//  2. A group of that size is picked uniformly and held out of the index.
//  3. An item of that group is picked uniformly and appended.
//  4. The group held out on the previous step is filed again, unless it is
//     exhausted, and the group just drawn takes its place.
//
// Picking uniformly over sizes rather than over items favours items of
// numerous small groups. The bias is part of what the trials measure.
func (b *Builder) Next() (Sequence, error) {
	b.index.reset(b.base)
	b.forced = 0

	n := b.gs.Total()
	seq := make(Sequence, 0, n)
	pending := noGroup

	for len(seq) < n {
		if b.index.empty() {
			return nil, errors.New(errors.ErrCodePrecondition,
				"dead end after %d of %d items: only group %q has items left",
				len(seq), n, b.gs.Group(pending).Name)
		}

		remaining := n - len(seq)
		size := b.index.maxSize()
		if size*2 < remaining {
			keys := b.index.sizes()
			size = keys[b.rng.IntN(len(keys))]
		} else {
			b.forced++
		}

		current := b.index.pickGroup(size, b.rng)
		seq = append(seq, b.index.takeItem(current, b.rng))

		if pending != noGroup {
			b.index.insert(pending)
		}
		pending = current
	}

	return seq, nil
}

// ForcedDraws returns how many steps of the last sequence were forced to the
// largest group.
func (b *Builder) ForcedDraws() int { return b.forced }

// GroupSet returns the input the builder draws from.
func (b *Builder) GroupSet() *groups.GroupSet { return b.gs }

// Build is a convenience wrapper that builds a single sequence.
func Build(gs *groups.GroupSet, rng *rand.Rand) (Sequence, error) {
	b, err := NewBuilder(gs, rng)
	if err != nil {
		return nil, err
	}
	return b.Next()
}
