package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/necklace/pkg/groups"
)

// seqOf builds a sequence from labels, tagging each with its first character.
func seqOf(labels ...string) Sequence {
	s := make(Sequence, len(labels))
	for i, l := range labels {
		s[i] = groups.Item{Label: l, Group: l[:1]}
	}
	return s
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		seq  Sequence
		want bool
	}{
		{"empty", seqOf(), true},
		{"single", seqOf("A1"), true},
		{"alternating", seqOf("A1", "B1", "A2", "B2"), true},
		{"adjacent pair", seqOf("A1", "A2", "B1"), false},
		{"adjacent at end", seqOf("A1", "B1", "C1", "C2"), false},
		{"same group at both ends only", seqOf("A1", "B1", "A2"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.seq))
			assert.Equal(t, tt.want, len(Violations(tt.seq)) == 0)
		})
	}
}

func TestIsValidComparesGroupsNotFirstLetters(t *testing.T) {
	s := Sequence{
		{Label: "ann", Group: "red"},
		{Label: "amy", Group: "blue"},
	}
	assert.True(t, IsValid(s))
	assert.True(t, IsCycle(s))
}

func TestViolations(t *testing.T) {
	assert.Equal(t, []int{1, 4}, Violations(seqOf("A1", "A2", "B1", "C1", "C2")))
	assert.Nil(t, Violations(seqOf("A1", "B1")))
}

func TestIsCycle(t *testing.T) {
	tests := []struct {
		name string
		seq  Sequence
		want bool
	}{
		{"empty", seqOf(), false},
		{"single", seqOf("A1"), false},
		{"different ends", seqOf("A1", "B1", "A2", "C1"), true},
		{"same ends", seqOf("A1", "B1", "A2"), false},
		{"interior ignored", seqOf("A1", "B1", "B2", "C1"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCycle(tt.seq))
		})
	}
}

func TestIsCycleDependsOnActualEndpoints(t *testing.T) {
	// A valid path whose ends share a group is not a cycle...
	path := seqOf("A1", "B1", "A2")
	assert.True(t, IsValid(path))
	assert.False(t, IsCycle(path))

	// ...but rotating it moves a different pair to the ends and flips the answer.
	rotated := Rotate(path, 1)
	assert.Equal(t, []string{"B1", "A2", "A1"}, rotated.Labels())
	assert.True(t, IsCycle(rotated))
	assert.False(t, IsValid(rotated))
}
