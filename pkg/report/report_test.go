package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bundlescope/pkg/analyze"
	"github.com/matzehuels/bundlescope/pkg/bundle"
	"github.com/matzehuels/bundlescope/pkg/extract"
)

var fixtureLines = []string{
	`},0,[1,2,3],"src/App.tsx");`,
	`},1,[3],"src/screens/Home.tsx");`,
	`},bad,[],"broken.js");`,
	`},2,[42],"src/screens/Settings.tsx");`,
	`},3,[4],"node_modules/react/index.js");`,
	`},4,[],"node_modules/react/cjs/react.production.min.js");`,
}

func buildReport(t *testing.T, depths bool) *Report {
	t.Helper()
	quiet := log.New(io.Discard)
	ext := &extract.Result{Path: "main.jsbundle", Searcher: "rg", Lines: fixtureLines}
	parsed := bundle.Parse(ext.Lines, bundle.ParseOptions{Logger: quiet})
	res, err := analyze.Analyze(context.Background(), parsed.Modules, analyze.Options{Depths: depths, Logger: quiet})
	require.NoError(t, err)
	return New(SourceOf(ext), parsed, res)
}

func TestNew(t *testing.T) {
	r := buildReport(t, true)

	assert.Equal(t, "main.jsbundle", r.Bundle)
	assert.Equal(t, "rg", r.Searcher)
	assert.Equal(t, 6, r.MatchedLines)
	assert.Equal(t, 5, r.Modules)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, []string{"src/App.tsx", "src/screens/Home.tsx", "src/screens/Settings.tsx"}, r.Application)
	assert.Equal(t, []string{"node_modules/react/index.js", "node_modules/react/cjs/react.production.min.js"}, r.Library)
	require.Len(t, r.Depths, 5)
	assert.Equal(t, DepthRow{Name: "src/App.tsx", ID: "0", Dependencies: 3, Depth: 4}, r.Depths[4])
	assert.Equal(t, 1, r.Dangling)
	assert.Equal(t, 4, r.MaxDepth)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, buildReport(t, false)))

	assert.Equal(t, `6 module lines found
5 modules found
3 app modules found
2 library modules found
1 unparseable line skipped
app modules:
src/App.tsx
src/screens/Home.tsx
src/screens/Settings.tsx
library modules:
node_modules/react/index.js
node_modules/react/cjs/react.production.min.js
`, buf.String())
}

func TestWriteText_Depths(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, buildReport(t, true)))

	assert.Contains(t, buf.String(), `module,id,dependencyCount,depth
node_modules/react/cjs/react.production.min.js,4,0,1
src/screens/Settings.tsx,2,1,2
node_modules/react/index.js,3,1,2
src/screens/Home.tsx,1,1,3
src/App.tsx,0,3,4
max depth 4, 1 dangling dependency, 0 cyclic modules
`)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, buildReport(t, true)))

	out := buf.String()
	assert.Contains(t, out, "MODULE")
	assert.Contains(t, out, "DEPTH")
	assert.Contains(t, out, "src/App.tsx")
	assert.Contains(t, out, "library")
}

func TestWriteTable_NoDepths(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, buildReport(t, false)))

	out := buf.String()
	assert.Contains(t, out, "KIND")
	assert.NotContains(t, out, "DEPTH")
	assert.Contains(t, out, "node_modules/react/index.js")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, buildReport(t, true), FormatJSON))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 5, decoded.Modules)
	assert.Len(t, decoded.Depths, 5)
	assert.Contains(t, buf.String(), `"matched_lines": 6`)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, buildReport(t, false), FormatYAML))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 5, decoded["modules"])
	assert.NotContains(t, decoded, "depths")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"TABLE", FormatTable, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_Unsupported(t *testing.T) {
	assert.Error(t, Write(io.Discard, &Report{}, Format("xml")))
}
