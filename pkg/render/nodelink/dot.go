package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bundlescope/pkg/graph"
)

// Node fill colours.
const (
	AppColor      = "#dbeafe"
	LibraryColor  = "#f3f4f6"
	DanglingColor = "white"
	CyclicBorder  = "#dc2626"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed labels nodes with their full module name and id. When false
	// only the last two path segments of the name are shown.
	Detailed bool

	// IsLibrary reports whether a node is a library module. Nil treats
	// every module as application code.
	IsLibrary func(n graph.Node) bool
}

// ToDOT converts a node-link graph to Graphviz DOT format. The result can be
// rendered with [RenderSVG], [RenderPNG] or [Render].
//
// Application and library modules get different fills. Dangling targets are
// drawn dashed and cyclic modules get a red border.
func ToDOT(nl graph.NodeLink, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, n := range nl.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range nl.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if n.Label == "" {
		return "#" + n.ID
	}
	if detailed {
		return n.Label + "\n#" + n.ID
	}
	return shortName(n.Label)
}

// shortName keeps the last two segments of a module path.
func shortName(name string) string {
	dir, file := path.Split(name)
	parent := path.Base(strings.TrimSuffix(dir, "/"))
	if dir == "" || parent == "." || parent == "/" {
		return file
	}
	return parent + "/" + file
}

func fmtAttrs(n graph.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	if opts.Detailed && n.Label != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Label))
	}
	switch {
	case n.Dangling:
		attrs = append(attrs, "style=\"rounded,dashed\"", "fillcolor="+DanglingColor, "fontcolor=grey40")
	case opts.IsLibrary != nil && opts.IsLibrary(n):
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", LibraryColor))
	default:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", AppColor))
	}
	if n.Cyclic {
		attrs = append(attrs, fmt.Sprintf("color=%q", CyclicBorder), "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := Render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, graphviz.PNG)
}

// Render lays out dot with Graphviz and writes it in format.
func Render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg element with one whose
// size matches its viewBox, so the image scales in browsers.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
