package ring

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/render"
	"github.com/matzehuels/necklace/pkg/sequence"
)

// Options configures ring rendering.
type Options struct {
	// Title is drawn above the ring when set.
	Title string

	// Open omits the seam edge between the last and the first item.
	Open bool

	// Monochrome disables group fill colors.
	Monochrome bool
}

// palette holds fill colors assigned to groups in order of first appearance.
var palette = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

const (
	seamOK  = "black"
	seamBad = "#d62728"
)

// ToDOT converts a sequence to Graphviz DOT format laid out as a ring.
// Edges joining two items of one group are drawn dashed red, so an invalid
// sequence shows where it breaks.
func ToDOT(seq sequence.Sequence, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18, width=0.7, fixedsize=true];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=20;\n", opts.Title)
	}
	buf.WriteString("\n")

	colors := groupColors(seq)
	for _, it := range seq {
		attrs := []string{fmt.Sprintf("tooltip=%q", "group "+it.Group)}
		if !opts.Monochrome {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colors[it.Group]))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", it.Label, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := 1; i < len(seq); i++ {
		writeEdge(&buf, seq[i-1], seq[i], false)
	}
	if !opts.Open && len(seq) > 2 {
		writeEdge(&buf, seq[len(seq)-1], seq[0], true)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeEdge(buf *bytes.Buffer, from, to groups.Item, seam bool) {
	var attrs []string
	if from.Group == to.Group {
		attrs = append(attrs, "style=dashed", fmt.Sprintf("color=%q", seamBad))
	} else {
		attrs = append(attrs, fmt.Sprintf("color=%q", seamOK))
	}
	if seam {
		attrs = append(attrs, "penwidth=3", `tooltip="seam"`)
	}
	fmt.Fprintf(buf, "  %q -- %q [%s];\n", from.Label, to.Label, strings.Join(attrs, ", "))
}

// groupColors assigns palette colors by first appearance, cycling when there
// are more groups than colors.
func groupColors(seq sequence.Sequence) map[string]string {
	colors := make(map[string]string)
	for _, it := range seq {
		if _, ok := colors[it.Group]; !ok {
			colors[it.Group] = palette[len(colors)%len(palette)]
		}
	}
	return colors
}

// RenderSVG lays out a DOT graph with circo and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.CIRCO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render produces dot in the given format. scale only applies to PNG.
func Render(ctx context.Context, dot, format string, scale float64) ([]byte, error) {
	if err := render.ValidateFormat(format); err != nil {
		return nil, err
	}
	format = strings.ToLower(format)
	if format == render.FormatDOT {
		return []byte(dot), nil
	}

	svg, err := RenderSVG(ctx, dot)
	if err != nil || format == render.FormatSVG {
		return svg, err
	}
	if format == render.FormatPNG {
		return render.ToPNG(ctx, svg, scale)
	}
	return render.ToPDF(ctx, svg)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
