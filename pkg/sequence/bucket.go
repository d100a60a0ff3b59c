package sequence

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/necklace/pkg/groups"
)

// bucketIndex files the groups that still hold unplaced items by their
// remaining size. A group is addressed by its handle, the group's position in
// the input set.
//
// Each handle sits in at most one bucket. slot records where, so removal is
// an O(1) swap with the bucket's last entry. Buckets never stay empty: the
// key is deleted together with its last group.
//
// The index is owned by exactly one builder and is not safe for concurrent use.
type bucketIndex struct {
	buckets map[int][]int   // remaining size -> group handles
	slot    []int           // handle -> position in its bucket, -1 when not filed
	pools   [][]groups.Item // handle -> unplaced items
	keys    []int           // scratch for sizes()
}

func newBucketIndex(n int) *bucketIndex {
	return &bucketIndex{
		buckets: make(map[int][]int),
		slot:    make([]int, n),
		pools:   make([][]groups.Item, n),
	}
}

// reset refills every pool from base and files all groups, reusing the
// allocations of the previous trial. base is never modified.
func (b *bucketIndex) reset(base [][]groups.Item) {
	clear(b.buckets)
	for h, items := range base {
		b.pools[h] = append(b.pools[h][:0], items...)
		b.slot[h] = -1
		b.insert(h)
	}
}

// empty reports whether no group is filed.
func (b *bucketIndex) empty() bool { return len(b.buckets) == 0 }

// remaining returns the number of unplaced items of group h.
func (b *bucketIndex) remaining(h int) int { return len(b.pools[h]) }

// maxSize returns the largest size key, or 0 when the index is empty.
func (b *bucketIndex) maxSize() int {
	m := 0
	for size := range b.buckets {
		m = max(m, size)
	}
	return m
}

// sizes returns the size keys in ascending order. The slice is reused by the
// next call.
func (b *bucketIndex) sizes() []int {
	b.keys = b.keys[:0]
	for size := range b.buckets {
		b.keys = append(b.keys, size)
	}
	slices.Sort(b.keys)
	return b.keys
}

// insert files group h under its remaining size. Exhausted groups are never
// filed again.
func (b *bucketIndex) insert(h int) {
	size := len(b.pools[h])
	if size == 0 {
		return
	}
	b.slot[h] = len(b.buckets[size])
	b.buckets[size] = append(b.buckets[size], h)
}

// remove takes group h out of its bucket, deleting the bucket if it empties.
func (b *bucketIndex) remove(h int) {
	size := len(b.pools[h])
	bucket := b.buckets[size]
	i := b.slot[h]
	last := len(bucket) - 1

	bucket[i] = bucket[last]
	b.slot[bucket[i]] = i
	bucket = bucket[:last]
	b.slot[h] = -1

	if len(bucket) == 0 {
		delete(b.buckets, size)
		return
	}
	b.buckets[size] = bucket
}

// pickGroup removes and returns a group chosen uniformly among those filed
// under size. The bucket must exist.
func (b *bucketIndex) pickGroup(size int, rng *rand.Rand) int {
	bucket := b.buckets[size]
	h := bucket[rng.IntN(len(bucket))]
	b.remove(h)
	return h
}

// takeItem removes and returns an item chosen uniformly from group h, which
// must not be filed while its size changes.
func (b *bucketIndex) takeItem(h int, rng *rand.Rand) groups.Item {
	pool := b.pools[h]
	i := rng.IntN(len(pool))
	it := pool[i]
	last := len(pool) - 1
	pool[i] = pool[last]
	b.pools[h] = pool[:last]
	return it
}
