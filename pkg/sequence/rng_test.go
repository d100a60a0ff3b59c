package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRandZeroSeed(t *testing.T) {
	a, b := NewRand(0), NewRand(DefaultSeed)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestDeriveSeed(t *testing.T) {
	assert.Equal(t, DeriveSeed(42, 3), DeriveSeed(42, 3))

	seen := make(map[uint64]bool)
	for w := uint64(0); w < 64; w++ {
		s := DeriveSeed(42, w)
		assert.False(t, seen[s], "stream %d collides", w)
		seen[s] = true
	}
	assert.NotEqual(t, DeriveSeed(42, 0), DeriveSeed(43, 0))
}
