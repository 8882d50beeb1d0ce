// Package render turns module graphs into files.
//
// [Render] dispatches on a [Format]: DOT and JSON are written directly from
// the [graph.NodeLink], SVG and PNG are laid out in-process by Graphviz (see
// the [nodelink] subpackage), and PDF converts the SVG with the external
// rsvg-convert tool from librsvg.
//
//	nl := g.Export(nil)
//	svg, err := render.Render(ctx, nl, render.FormatSVG, nodelink.Options{})
//
// [graph.NodeLink]: github.com/matzehuels/bundlescope/pkg/graph.NodeLink
// [nodelink]: github.com/matzehuels/bundlescope/pkg/render/nodelink
package render
