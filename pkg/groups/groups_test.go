package groups

import (
	"slices"
	"testing"

	"github.com/matzehuels/necklace/pkg/errors"
)

func TestNew(t *testing.T) {
	gs, err := New(
		NewGroup("A", "A1", "A2", "A3", "A4"),
		NewGroup("B", "B1", "B2", "B3"),
		NewGroup("C", "C1"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if gs.Len() != 3 {
		t.Errorf("Len() = %d, want 3", gs.Len())
	}
	if gs.Total() != 8 {
		t.Errorf("Total() = %d, want 8", gs.Total())
	}
	if gs.MaxSize() != 4 {
		t.Errorf("MaxSize() = %d, want 4", gs.MaxSize())
	}
	if got := gs.Sizes(); !slices.Equal(got, []int{4, 3, 1}) {
		t.Errorf("Sizes() = %v, want [4 3 1]", got)
	}
	if got := gs.Names(); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("Names() = %v", got)
	}
	if gs.Largest() != "A" {
		t.Errorf("Largest() = %q, want A", gs.Largest())
	}
	if it, ok := gs.Lookup("B2"); !ok || it.Group != "B" {
		t.Errorf("Lookup(B2) = %v, %v", it, ok)
	}
	if _, ok := gs.Lookup("Z9"); ok {
		t.Error("Lookup(Z9) should miss")
	}
}

func TestNewRejects(t *testing.T) {
	tests := []struct {
		name   string
		groups []Group
		code   errors.Code
	}{
		{"no groups", nil, errors.ErrCodeInvalidInput},
		{"empty group", []Group{NewGroup("A", "A1"), NewGroup("B")}, errors.ErrCodeEmptyGroup},
		{"duplicate item", []Group{NewGroup("A", "A1"), NewGroup("B", "A1")}, errors.ErrCodeDuplicateItem},
		{"duplicate group", []Group{NewGroup("A", "A1"), NewGroup("A", "A2")}, errors.ErrCodeDuplicateItem},
		{"empty label", []Group{NewGroup("A", "")}, errors.ErrCodeInvalidInput},
		{"empty name", []Group{NewGroup("", "A1")}, errors.ErrCodeInvalidInput},
		{
			"mismatched tag",
			[]Group{{Name: "A", Items: []Item{{Label: "A1", Group: "B"}}}},
			errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.groups...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestNewAdoptsGroupTag(t *testing.T) {
	gs, err := New(Group{Name: "A", Items: []Item{{Label: "x"}}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if it, _ := gs.Lookup("x"); it.Group != "A" {
		t.Errorf("Group = %q, want A", it.Group)
	}
}

func TestGroupSetIsImmutable(t *testing.T) {
	input := []Group{NewGroup("A", "A1", "A2"), NewGroup("B", "B1", "B2")}
	gs, err := New(input...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Mutating the caller's slice must not leak in.
	input[0].Items[0].Label = "mutated"
	if _, ok := gs.Lookup("A1"); !ok {
		t.Error("GroupSet aliased the caller's items")
	}

	// Mutating a returned copy must not leak in either.
	g := gs.Group(0)
	g.Items[0].Label = "mutated"
	g.Items = g.Items[:0]
	if gs.Group(0).Items[0].Label != "A1" || gs.Total() != 4 {
		t.Error("GroupSet aliased a returned group")
	}

	items := gs.Items()
	items[0] = Item{Label: "zzz", Group: "Z"}
	if gs.Items()[0].Label != "A1" {
		t.Error("GroupSet aliased Items()")
	}
}

func TestFingerprint(t *testing.T) {
	a, _ := Parse("A1,A2 B1")
	same, _ := Parse("A:A1,A2 B:B1")
	b, _ := Parse("B1 A2,A1")
	c, _ := Parse("A1,A2 B1,B2")

	if a.Fingerprint() != same.Fingerprint() {
		t.Error("equal group sets should have equal fingerprints")
	}
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("Fingerprint should depend on declaration order")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different partitions should have different fingerprints")
	}
	if len(a.Fingerprint()) != 64 {
		t.Errorf("Fingerprint length = %d, want 64", len(a.Fingerprint()))
	}
}

func TestString(t *testing.T) {
	gs, _ := Parse("A1,A2 B1")
	if gs.String() != "A1,A2 B1" {
		t.Errorf("String() = %q", gs.String())
	}
}
