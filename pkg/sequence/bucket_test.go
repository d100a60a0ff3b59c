package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/necklace/pkg/groups"
)

func baseOf(gs *groups.GroupSet) [][]groups.Item {
	base := make([][]groups.Item, gs.Len())
	for i := range base {
		base[i] = gs.Group(i).Items
	}
	return base
}

func TestBucketIndexReset(t *testing.T) {
	gs := mustParse(t, "A1,A2,A3 B1,B2,B3 C1 D1,D2")
	b := newBucketIndex(gs.Len())
	b.reset(baseOf(gs))

	assert.Equal(t, 3, b.maxSize())
	assert.Equal(t, []int{1, 2, 3}, b.sizes())
	assert.ElementsMatch(t, []int{0, 1}, b.buckets[3])
	assert.Equal(t, []int{2}, b.buckets[1])
	assert.False(t, b.empty())
}

func TestBucketIndexRemoveDeletesEmptyBucket(t *testing.T) {
	gs := mustParse(t, "A1,A2 B1")
	b := newBucketIndex(gs.Len())
	b.reset(baseOf(gs))

	b.remove(1)
	_, ok := b.buckets[1]
	assert.False(t, ok, "empty bucket key must be deleted")
	assert.Equal(t, -1, b.slot[1])

	b.remove(0)
	assert.True(t, b.empty())
	assert.Equal(t, 0, b.maxSize())
}

func TestBucketIndexSlotsStayConsistent(t *testing.T) {
	gs := mustParse(t, "A1 B1 C1 D1 E1")
	b := newBucketIndex(gs.Len())
	b.reset(baseOf(gs))

	b.remove(1)
	b.remove(4)
	for i, h := range b.buckets[1] {
		assert.Equal(t, i, b.slot[h])
	}
	assert.ElementsMatch(t, []int{0, 2, 3}, b.buckets[1])
}

func TestBucketIndexTakeAndRefile(t *testing.T) {
	gs := mustParse(t, "A1,A2,A3 B1")
	b := newBucketIndex(gs.Len())
	b.reset(baseOf(gs))
	rng := NewRand(1)

	h := b.pickGroup(3, rng)
	require.Equal(t, 0, h)
	it := b.takeItem(h, rng)
	assert.Equal(t, "A", it.Group)
	assert.Equal(t, 2, b.remaining(h))

	b.insert(h)
	assert.Equal(t, []int{0}, b.buckets[2])

	// Exhausted groups are never refiled.
	h = b.pickGroup(1, rng)
	b.takeItem(h, rng)
	b.insert(h)
	_, ok := b.buckets[0]
	assert.False(t, ok)
}

func TestBucketIndexResetRestoresPools(t *testing.T) {
	gs := mustParse(t, "A1,A2 B1,B2")
	base := baseOf(gs)
	b := newBucketIndex(gs.Len())
	rng := NewRand(2)

	b.reset(base)
	h := b.pickGroup(2, rng)
	b.takeItem(h, rng)
	b.takeItem(h, rng)

	b.reset(base)
	assert.Equal(t, 2, b.remaining(0))
	assert.Equal(t, 2, b.remaining(1))
	assert.Len(t, base[0], 2, "reset must not consume the base items")
}
