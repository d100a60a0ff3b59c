package sequence

import "math/rand/v2"

// DefaultSeed replaces a zero seed so that "unset" still means reproducible.
const DefaultSeed uint64 = 42

// NewRand returns a deterministic PCG-backed generator for seed.
// A zero seed is replaced by [DefaultSeed].
//
// The returned *rand.Rand is not safe for concurrent use; give every worker
// its own generator, derived with [DeriveSeed].
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// DeriveSeed mixes a parent seed and a stream identifier into an independent
// seed using the SplitMix64 finalizer, so that worker w of a run seeded with
// s draws from DeriveSeed(s, w) and neighbouring workers are uncorrelated.
func DeriveSeed(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
