package groups

import (
	"slices"
	"testing"

	"github.com/matzehuels/necklace/pkg/errors"
)

func TestFromLabels(t *testing.T) {
	gs, err := FromLabels("B1", "A1", "A2", "B2", "C1")
	if err != nil {
		t.Fatalf("FromLabels: %v", err)
	}
	if got := gs.Names(); !slices.Equal(got, []string{"B", "A", "C"}) {
		t.Errorf("Names() = %v, want [B A C]", got)
	}
	if got := gs.Sizes(); !slices.Equal(got, []int{2, 2, 1}) {
		t.Errorf("Sizes() = %v, want [2 2 1]", got)
	}
}

func TestFromLabelsRejectsEmpty(t *testing.T) {
	if _, err := FromLabels("A1", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		names []string
		sizes []int
	}{
		{"implicit names", "A1,A2,A3 B1,B2 C1", []string{"A", "B", "C"}, []int{3, 2, 1}},
		{"explicit names", "red:ann,bob blue:cid", []string{"red", "blue"}, []int{2, 1}},
		{"extra whitespace", "  A1,A2\n\tB1  ", []string{"A", "B"}, []int{2, 1}},
		{"trailing comma", "A1,A2, B1", []string{"A", "B"}, []int{2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := gs.Names(); !slices.Equal(got, tt.names) {
				t.Errorf("Names() = %v, want %v", got, tt.names)
			}
			if got := gs.Sizes(); !slices.Equal(got, tt.sizes) {
				t.Errorf("Sizes() = %v, want %v", got, tt.sizes)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
		code errors.Code
	}{
		{"empty", "   ", errors.ErrCodeInvalidInput},
		{"named empty group", "A:", errors.ErrCodeEmptyGroup},
		{"only commas", ",,", errors.ErrCodeEmptyGroup},
		{"colliding implicit names", "Ann,Al Abe", errors.ErrCodeDuplicateItem},
		{"duplicate label", "A1,A1", errors.ErrCodeDuplicateItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.spec)
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse(%q) = %v, want %v", tt.spec, err, tt.code)
			}
		})
	}
}
