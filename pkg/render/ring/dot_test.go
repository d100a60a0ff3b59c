package ring

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/sequence"
)

func seq(labels ...string) sequence.Sequence {
	out := make(sequence.Sequence, len(labels))
	for i, l := range labels {
		out[i] = groups.Item{Label: l, Group: l[:1]}
	}
	return out
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(seq("A1", "B1", "C1"), Options{})

	if !strings.Contains(dot, "graph G") {
		t.Error("ToDOT() output missing graph declaration")
	}
	if !strings.Contains(dot, "layout=circo") {
		t.Error("ToDOT() output missing circo layout")
	}
	for _, edge := range []string{`"A1" -- "B1"`, `"B1" -- "C1"`, `"C1" -- "A1"`} {
		if !strings.Contains(dot, edge) {
			t.Errorf("ToDOT() output missing edge %s", edge)
		}
	}
	if strings.Contains(dot, "dashed") {
		t.Error("valid cycle should have no dashed edges")
	}
}

func TestToDOT_BrokenSeam(t *testing.T) {
	dot := ToDOT(seq("A1", "B1", "A2"), Options{})

	if !strings.Contains(dot, `"A2" -- "A1" [style=dashed`) {
		t.Errorf("seam between same-group ends should be dashed:\n%s", dot)
	}
}

func TestToDOT_Open(t *testing.T) {
	dot := ToDOT(seq("A1", "B1", "A2"), Options{Open: true})

	if strings.Contains(dot, `"A2" -- "A1"`) {
		t.Error("open ring should not draw the seam")
	}
}

func TestToDOT_Title(t *testing.T) {
	dot := ToDOT(seq("A1", "B1"), Options{Title: "seed 42"})
	if !strings.Contains(dot, `label="seed 42"`) {
		t.Error("ToDOT() missing title")
	}
}

func TestToDOT_GroupColors(t *testing.T) {
	dot := ToDOT(seq("A1", "B1", "A2"), Options{})
	if strings.Count(dot, palette[0]) != 2 {
		t.Errorf("both A items should share the first palette color:\n%s", dot)
	}

	mono := ToDOT(seq("A1", "B1"), Options{Monochrome: true})
	if strings.Contains(mono, palette[0]) {
		t.Error("monochrome output should not use palette colors")
	}
}

func TestGroupColorsCycle(t *testing.T) {
	var s sequence.Sequence
	for i := 0; i <= len(palette); i++ {
		s = append(s, groups.Item{Label: string(rune('a' + i)), Group: string(rune('a' + i))})
	}
	colors := groupColors(s)
	if colors["a"] != colors[string(rune('a'+len(palette)))] {
		t.Error("colors should cycle after the palette is exhausted")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRender_DOTPassthrough(t *testing.T) {
	dot := ToDOT(seq("A1", "B1"), Options{})
	out, err := Render(context.Background(), dot, "DOT", 0)
	if err != nil {
		t.Fatalf("Render(dot) error = %v", err)
	}
	if string(out) != dot {
		t.Error("Render(dot) should return the DOT source unchanged")
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := Render(context.Background(), "graph G {}", "gif", 1); err == nil {
		t.Error("Render(gif) should fail")
	}
}
