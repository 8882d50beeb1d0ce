package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/bundlescope/pkg/graph"
)

func sample() graph.NodeLink {
	return graph.NodeLink{
		Nodes: []graph.Node{
			{ID: "0", Label: "/app/src/App.tsx"},
			{ID: "1", Label: "/app/node_modules/react/index.js", Cyclic: true},
			{ID: "9", Dangling: true},
		},
		Edges: []graph.Edge{{From: "0", To: "1"}, {From: "0", To: "9"}},
	}
}

func isLib(n graph.Node) bool { return strings.Contains(n.Label, "node_modules") }

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), Options{IsLibrary: isLib})

	for _, want := range []string{
		"digraph G {",
		`"0" [label="src/App.tsx", fillcolor="` + AppColor + `"]`,
		`"1" [label="react/index.js", fillcolor="` + LibraryColor + `", color="` + CyclicBorder + `", penwidth=2]`,
		`"9" [label="#9", style="rounded,dashed"`,
		`"0" -> "1";`,
		`"0" -> "9";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Errorf("DOT not closed:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true})
	if !strings.Contains(dot, `label="/app/src/App.tsx\n#0"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `tooltip="/app/src/App.tsx"`) {
		t.Errorf("tooltip missing:\n%s", dot)
	}
	// Without a classifier every module is application code.
	if strings.Contains(dot, LibraryColor) {
		t.Errorf("unexpected library fill:\n%s", dot)
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"App.tsx", "App.tsx"},
		{"src/App.tsx", "src/App.tsx"},
		{"/abs/path/src/App.tsx", "src/App.tsx"},
		{"/App.tsx", "App.tsx"},
	}
	for _, tt := range tests {
		if got := shortName(tt.in); got != tt.want {
			t.Errorf("shortName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
