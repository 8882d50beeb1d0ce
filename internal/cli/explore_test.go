package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/bundlescope/pkg/analyze"
	"github.com/matzehuels/bundlescope/pkg/bundle"
)

func testDepths() []analyze.ModuleDepth {
	return []analyze.ModuleDepth{
		{Module: bundle.Module{ID: "2", VerboseName: "node_modules/react/index.js", Dependencies: []string{}}, Depth: 1, Library: true},
		{Module: bundle.Module{ID: "1", VerboseName: "src/screens/Home.tsx", Dependencies: []string{"2"}}, Depth: 2},
		{Module: bundle.Module{ID: "0", VerboseName: "src/App.tsx", Dependencies: []string{"1", "2", "9"}}, Depth: 3},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m ModuleListModel, keys ...string) ModuleListModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(ModuleListModel)
	}
	return m
}

func TestModuleListNavigation(t *testing.T) {
	m := NewModuleListModel("main.jsbundle", testDepths())

	tests := []struct {
		keys   []string
		cursor int
		id     string
	}{
		{nil, 0, "2"},
		{[]string{"down"}, 1, "1"},
		{[]string{"j", "j"}, 2, "0"},
		{[]string{"j", "j", "j"}, 2, "0"},
		{[]string{"down", "up"}, 0, "2"},
		{[]string{"k"}, 0, "2"},
	}
	for _, tt := range tests {
		got := update(m, tt.keys...)
		if got.Cursor != tt.cursor {
			t.Errorf("%v: cursor = %d, want %d", tt.keys, got.Cursor, tt.cursor)
		}
		sel, ok := got.Selected()
		if !ok || sel.Module.ID != tt.id {
			t.Errorf("%v: selected = %q, want %q", tt.keys, sel.Module.ID, tt.id)
		}
	}
}

func TestModuleListFilter(t *testing.T) {
	m := NewModuleListModel("main.jsbundle", testDepths())

	m = update(m, "j", "tab")
	if m.Filter != filterApp || m.Cursor != 0 {
		t.Fatalf("filter = %v cursor = %d, want app and 0", m.Filter, m.Cursor)
	}
	if sel, _ := m.Selected(); sel.Module.ID != "1" {
		t.Errorf("first app module = %q, want 1", sel.Module.ID)
	}
	if view := m.View(); strings.Contains(view, "node_modules/react") {
		t.Error("app filter should hide library modules")
	}

	m = update(m, "tab")
	if m.Filter != filterLibrary {
		t.Fatalf("filter = %v, want library", m.Filter)
	}
	if view := m.View(); !strings.Contains(view, "node_modules/react") || strings.Contains(view, "src/App.tsx") {
		t.Errorf("library filter view wrong:\n%s", view)
	}

	m = update(m, "tab")
	if m.Filter != filterAll {
		t.Errorf("filter = %v, want all", m.Filter)
	}
}

func TestModuleListView(t *testing.T) {
	m := update(NewModuleListModel("main.jsbundle", testDepths()), "j", "j")
	view := m.View()

	for _, want := range []string{"Modules of main.jsbundle", "src/App.tsx", "depends on: 1, 2, 9", "[3/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModuleListEmpty(t *testing.T) {
	m := NewModuleListModel("empty.js", nil)
	m = update(m, "j", "k")
	if _, ok := m.Selected(); ok {
		t.Error("empty list should have no selection")
	}
	if !strings.Contains(m.View(), "no all modules") {
		t.Errorf("unexpected empty view:\n%s", m.View())
	}
}

func TestModuleListQuit(t *testing.T) {
	m := NewModuleListModel("main.jsbundle", testDepths())
	for _, k := range []string{"q", "esc"} {
		var msg tea.KeyMsg
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = key(k)
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestModuleListWindowSize(t *testing.T) {
	m := NewModuleListModel("main.jsbundle", testDepths())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(ModuleListModel).Height; got != 5 {
		t.Errorf("height = %d, want 5", got)
	}
}
