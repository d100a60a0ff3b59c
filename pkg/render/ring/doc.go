// Package ring renders sequences as closed rings.
//
// # Overview
//
// A built sequence is drawn as a circle of items in sequence order, joined
// by edges between neighbours. The closing edge from the last item back to
// the first is the seam: it is drawn solid when the ends belong to different
// groups and dashed red when closing the ring would put two items of one
// group side by side. Items are filled by group so adjacency is easy to see.
//
// # Usage
//
//	dot := ring.ToDOT(seq, ring.Options{Title: "seed 42"})
//	svg, err := ring.RenderSVG(ctx, dot)
//
// [Render] dispatches on a format name and also covers DOT, PDF and PNG.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] with the circo layout
// engine for in-process SVG rendering.
package ring
