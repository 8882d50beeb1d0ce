package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestStatusOutputUsesUIWriter(t *testing.T) {
	var buf bytes.Buffer
	old := uiOut
	uiOut = &buf
	defer func() { uiOut = old }()

	printSuccess("Saved snapshot %s", "abc")
	printStats("svg", 2048, true)

	out := buf.String()
	for _, want := range []string{"Saved snapshot abc", "svg", "2.0 KB", iconCached} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}
