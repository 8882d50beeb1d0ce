package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/bundlescope/pkg/report"
)

const testBundle = `var __BUNDLE_START_TIME__=this.nativePerformanceNow?nativePerformanceNow():Date.now();
__d(function(g,r,i,a,m,e,d){a.exports=r(d[0])},0,[1,2,9],"src/App.tsx");
__d(function(g,r,i,a,m,e,d){a.exports=r(d[0])},1,[2],"src/screens/Home.tsx");
__d(function(g,r,i,a,m,e,d){a.exports={}},2,[],"node_modules/react/index.js");
__r(0);
`

const testConfig = `searcher = "builtin"

[cache]
disabled = true
`

// setup writes a bundle and a config file into a temp dir, points HOME at it
// and silences status output.
func setup(t *testing.T) (bundle, cfg string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	bundle = filepath.Join(dir, "main.jsbundle")
	if err := os.WriteFile(bundle, []byte(testBundle), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg = filepath.Join(dir, "bundlescope.toml")
	if err := os.WriteFile(cfg, []byte(testConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	old := uiOut
	uiOut = io.Discard
	t.Cleanup(func() { uiOut = old })
	return bundle, cfg
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandNoArgsShowsHelp(t *testing.T) {
	out, err := run(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected usage text, got %q", out)
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"analyze", "graph", "explore", "serve", "history", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestAnalyzeText(t *testing.T) {
	bundle, cfg := setup(t)

	want := `3 module lines found
3 modules found
2 app modules found
1 library modules found
app modules:
src/App.tsx
src/screens/Home.tsx
library modules:
node_modules/react/index.js
`
	for _, args := range [][]string{
		{"--config", cfg, bundle},
		{"--config", cfg, "analyze", bundle},
	} {
		out, err := run(t, args...)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", args, err)
		}
		if out != want {
			t.Errorf("%v: got\n%s\nwant\n%s", args, out, want)
		}
	}
}

func TestAnalyzeDepth(t *testing.T) {
	bundle, cfg := setup(t)

	out, err := run(t, "--config", cfg, "analyze", "--depth", bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `module,id,dependencyCount,depth
node_modules/react/index.js,2,0,1
src/screens/Home.tsx,1,1,2
src/App.tsx,0,3,3
max depth 3, 1 dangling dependency, 0 cyclic modules
`
	if !strings.HasSuffix(out, want) {
		t.Errorf("got\n%s\nwant suffix\n%s", out, want)
	}
}

func TestAnalyzeFlagsOverrideConfig(t *testing.T) {
	bundle, cfg := setup(t)

	out, err := run(t, "--config", cfg, "analyze", "--marker", "src/screens", "--format", "json", bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(r.Library) != 1 || r.Library[0] != "src/screens/Home.tsx" {
		t.Errorf("library = %v, want [src/screens/Home.tsx]", r.Library)
	}
	if r.Searcher != "builtin" {
		t.Errorf("searcher = %q, want builtin", r.Searcher)
	}
}

func TestAnalyzeOutputFile(t *testing.T) {
	bundle, cfg := setup(t)
	path := filepath.Join(t.TempDir(), "report.yaml")

	out, err := run(t, "--config", cfg, "analyze", "-f", "yaml", "-o", path, bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "modules: 3") {
		t.Errorf("yaml report missing module count:\n%s", data)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	bundle, cfg := setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"--config", cfg, "analyze", "-f", "xml", bundle}},
		{"bad searcher", []string{"--config", cfg, "analyze", "--searcher", "grep", bundle}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "nope.toml"), bundle}},
		{"missing bundle", []string{"--config", cfg, filepath.Join(t.TempDir(), "nope.js")}},
		{"too many args", []string{"--config", cfg, "analyze", bundle, bundle}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGraphDOT(t *testing.T) {
	bundle, cfg := setup(t)

	out, err := run(t, "--config", cfg, "graph", "--format", "dot", bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("expected DOT output, got %q", out)
	}
	if !strings.Contains(out, `"0" -> "1"`) {
		t.Errorf("missing edge 0 -> 1 in:\n%s", out)
	}

	appOnly, err := run(t, "--config", cfg, "graph", "--format", "dot", "--app-only", bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(appOnly, `"2" [`) {
		t.Errorf("library module should be left out:\n%s", appOnly)
	}
}

func TestGraphFormatFromOutput(t *testing.T) {
	bundle, cfg := setup(t)
	path := filepath.Join(t.TempDir(), "modules.json")

	if _, err := run(t, "--config", cfg, "graph", "-o", path, bundle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var nl struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(data, &nl); err != nil {
		t.Fatalf("decode node-link json: %v", err)
	}
	if len(nl.Nodes) == 0 {
		t.Error("expected nodes in node-link output")
	}
}

func TestHistory(t *testing.T) {
	bundle, cfg := setup(t)

	out, err := run(t, "--config", cfg, "history")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("empty history should print nothing to stdout, got %q", out)
	}

	if _, err := run(t, "--config", cfg, "analyze", "--save", "--depth", bundle); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err = run(t, "--config", cfg, "history")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "main.jsbundle") {
		t.Errorf("history should list the bundle:\n%s", out)
	}

	entries, err := os.ReadDir(filepath.Join(os.Getenv("HOME"), ".config", appName, "snapshots"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one snapshot file, got %v (err %v)", entries, err)
	}
	id := strings.TrimSuffix(entries[0].Name(), ".json")

	out, err = run(t, "--config", cfg, "history", "show", "-f", "json", id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if r.ID != id || r.MaxDepth != 3 || len(r.Depths) != 3 {
		t.Errorf("unexpected snapshot: id=%s max=%d depths=%d", r.ID, r.MaxDepth, len(r.Depths))
	}

	if _, err := run(t, "--config", cfg, "history", "show", "missing"); err == nil {
		t.Error("expected an error for an unknown snapshot")
	}
}

func TestCachePath(t *testing.T) {
	_, cfg := setup(t)

	out, err := run(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCacheClear(t *testing.T) {
	bundle, _ := setup(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "cached.toml")
	content := "searcher = \"builtin\"\n\n[cache]\ndir = " + strconv.Quote(filepath.Join(dir, "c")) + "\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "--config", cfg, "analyze", bundle); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if n := countEntries(t, filepath.Join(dir, "c")); n == 0 {
		t.Fatal("expected cached module set")
	}

	if _, err := run(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n := countEntries(t, filepath.Join(dir, "c")); n != 0 {
		t.Errorf("%d cache entries survived clear", n)
	}
}

func countEntries(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "bundlescope") {
		t.Error("bash completion should mention the command name")
	}
}
