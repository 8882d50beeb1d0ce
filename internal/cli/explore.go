package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlescope/pkg/analyze"
	"github.com/matzehuels/bundlescope/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// explore command
// =============================================================================

// exploreCommand creates the "explore" command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		marker   string
		searcher string
		workers  int
		noCache  bool
	)
	cmd := &cobra.Command{
		Use:   "explore <bundle>",
		Short: "Browse module depths interactively",
		Long: `Explore computes the dependency depth of every module and opens a
scrollable table, shallowest first. Tab cycles between all, application and
library modules.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := pipeline.FromConfig(cfg, args[0])
			opts.Depths = true
			if cmd.Flags().Changed("marker") {
				opts.VendorMarker = marker
			}
			if cmd.Flags().Changed("searcher") {
				opts.Searcher = searcher
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, "Measuring module depths...")
			spinner.Start()
			res, err := runner.Execute(ctx, opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			model := NewModuleListModel(args[0], res.Analysis.Depths)
			_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout())).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&marker, "marker", "", "substring that marks library modules (default node_modules)")
	cmd.Flags().StringVar(&searcher, "searcher", "", "record searcher: rg or builtin")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel depth workers")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not read or write the module cache")
	return cmd
}

// =============================================================================
// ModuleListModel - Interactive depth table
// =============================================================================

// moduleFilter selects which modules the list shows.
type moduleFilter int

const (
	filterAll moduleFilter = iota
	filterApp
	filterLibrary
)

func (f moduleFilter) String() string {
	switch f {
	case filterApp:
		return "app"
	case filterLibrary:
		return "library"
	default:
		return "all"
	}
}

// ModuleListModel is the bubbletea model for browsing module depths.
type ModuleListModel struct {
	Bundle  string
	Modules []analyze.ModuleDepth
	Filter  moduleFilter
	Cursor  int
	Height  int
	Offset  int

	visible []int
}

// NewModuleListModel creates a module list over depths, which are expected
// in ascending depth order.
func NewModuleListModel(bundle string, depths []analyze.ModuleDepth) ModuleListModel {
	m := ModuleListModel{
		Bundle:  bundle,
		Modules: depths,
		Height:  15,
	}
	m.applyFilter()
	return m
}

func (m *ModuleListModel) applyFilter() {
	m.visible = make([]int, 0, len(m.Modules))
	for i, d := range m.Modules {
		switch {
		case m.Filter == filterApp && d.Library:
		case m.Filter == filterLibrary && !d.Library:
		default:
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor = 0
	m.Offset = 0
}

// Selected returns the module under the cursor.
func (m ModuleListModel) Selected() (analyze.ModuleDepth, bool) {
	if len(m.visible) == 0 {
		return analyze.ModuleDepth{}, false
	}
	return m.Modules[m.visible[m.Cursor]], true
}

func (m ModuleListModel) Init() tea.Cmd {
	return nil
}

func (m ModuleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			m.Filter = (m.Filter + 1) % 3
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ModuleListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Modules of " + m.Bundle))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab filter (" + m.Filter.String() + ")  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.visible) {
		end = len(m.visible)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		d := m.Modules[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		flags := ""
		if d.Cyclic {
			flags = "cycle"
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(d.Depth),
			d.Module.ID,
			kindLabel(d.Library),
			strconv.Itoa(len(d.Module.Dependencies)),
			d.Module.VerboseName,
			flags,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Depth", "ID", "Kind", "Deps", "Module", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			d := m.Modules[m.visible[idx]]
			base := lipgloss.NewStyle()
			if col == 6 {
				return base.Foreground(colorRed)
			}
			if idx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if d.Library {
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if d, ok := m.Selected(); ok {
		deps := "none"
		if len(d.Module.Dependencies) > 0 {
			deps = strings.Join(d.Module.Dependencies, ", ")
		}
		b.WriteString(listDimStyle.Render("  depends on: " + deps))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))
	} else {
		b.WriteString(listDimStyle.Render("  no " + m.Filter.String() + " modules"))
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func kindLabel(library bool) string {
	if library {
		return "lib"
	}
	return "app"
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
