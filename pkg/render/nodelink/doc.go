// Package nodelink renders module graphs as node-link diagrams.
//
// # Usage
//
// Convert a [graph.NodeLink] to DOT, then render it:
//
//	dot := nodelink.ToDOT(g.Export(nil), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//
// The generated DOT lays dependencies out left to right with rounded box
// nodes.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
//
// [graph.NodeLink]: github.com/matzehuels/bundlescope/pkg/graph.NodeLink
package nodelink
