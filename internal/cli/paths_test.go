package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlescope/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"home fallback", "", filepath.Join(home, ".cache", "bundlescope")},
		{"xdg cache home", "/var/tmp/xdg", filepath.Join("/var/tmp/xdg", "bundlescope")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", home)
			t.Setenv("XDG_CACHE_HOME", tt.xdg)

			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCachePathFromConfig(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	tests := []struct {
		name   string
		config string
		want   string
	}{
		{
			name:   "configured directory",
			config: "[cache]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "modules")) + "\"\n",
			want:   filepath.Join(dir, "modules"),
		},
		{
			name:   "redis url",
			config: "[cache]\nurl = \"redis://localhost:6379/2\"\n",
			want:   "redis://localhost:6379/2",
		},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := filepath.Join(dir, "cfg"+strconv.Itoa(i)+".toml")
			if err := os.WriteFile(cfg, []byte(tt.config), 0o644); err != nil {
				t.Fatal(err)
			}
			out, err := run(t, "--config", cfg, "cache", "path")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("cache path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigCandidates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	paths := config.Candidates()
	if len(paths) == 0 || paths[0] != config.FileName {
		t.Fatalf("first candidate = %v, want %q", paths, config.FileName)
	}
	if paths[0] != "bundlescope.toml" {
		t.Errorf("working directory config = %q, want bundlescope.toml", paths[0])
	}
	if len(paths) > 1 {
		want := filepath.Join("bundlescope", "config.toml")
		if !strings.HasSuffix(paths[1], want) {
			t.Errorf("user config = %q, should end with %q", paths[1], want)
		}
	}
}

func TestOpenOutput(t *testing.T) {
	cmd := &cobra.Command{}
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	for _, path := range []string{"", "-"} {
		w, closeFn, err := openOutput(cmd, path)
		if err != nil {
			t.Fatalf("openOutput(%q) error: %v", path, err)
		}
		if w != &stdout {
			t.Errorf("openOutput(%q) should write to the command's stdout", path)
		}
		if err := closeFn(); err != nil {
			t.Errorf("close: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "report.json")
	w, closeFn, err := openOutput(cmd, path)
	if err != nil {
		t.Fatalf("openOutput(file) error: %v", err)
	}
	if _, err := w.Write([]byte("{}")); err != nil {
		t.Fatal(err)
	}
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("file content = %q", data)
	}

	if _, _, err := openOutput(cmd, filepath.Join(t.TempDir(), "missing", "out.json")); err == nil {
		t.Error("expected an error for a missing parent directory")
	}
}
