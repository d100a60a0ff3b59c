// Package render holds the output formats shared by necklace's drawings.
//
// Graphviz renders DOT to SVG in process. PDF and PNG are converted from that
// SVG by the external rsvg-convert tool (librsvg), which is only needed for
// those two formats:
//
//	svg, err := ring.RenderSVG(ctx, ring.ToDOT(seq, ring.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// The [ring] subpackage draws a sequence as a closed ring.
//
// [ring]: github.com/matzehuels/necklace/pkg/render/ring
package render
