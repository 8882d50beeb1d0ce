package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/bundlescope/pkg/graph"
	"github.com/matzehuels/bundlescope/pkg/render/nodelink"
)

// Format is a graph output format.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatDOT, FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid graph format: %q (must be one of: dot, svg, png, pdf, json)", s)
}

// FormatFromPath infers a format from a file extension, defaulting to SVG.
func FormatFromPath(path string) Format {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return FormatSVG
	}
	if f, err := ParseFormat(path[i+1:]); err == nil {
		return f
	}
	return FormatSVG
}

// Render writes nl in format. DOT and JSON are produced directly; the image
// formats go through Graphviz.
func Render(ctx context.Context, nl graph.NodeLink, format Format, opts nodelink.Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := graph.WriteJSON(&buf, nl); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(nl, opts)), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(nl, opts))
	case FormatPNG:
		return nodelink.RenderPNG(ctx, nodelink.ToDOT(nl, opts))
	case FormatPDF:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(nl, opts))
		if err != nil {
			return nil, err
		}
		return ToPDF(ctx, svg)
	default:
		return nil, fmt.Errorf("unsupported graph format: %s", format)
	}
}
