package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlescope/pkg/report"
	"github.com/matzehuels/bundlescope/pkg/store"
)

// historyCommand creates the "history" command for saved snapshots.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		bundle string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved report snapshots",
		Long: `History lists reports saved with "analyze --save", newest first. Snapshots
live in MongoDB when [store] uri is configured, otherwise under
~/.config/bundlescope/snapshots.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			reports, err := st.List(ctx, store.ListOptions{Limit: limit, Bundle: bundle})
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				printInfo("No snapshots")
				printNextStep("Save one with", "bundlescope analyze --save <bundle>")
				return nil
			}
			writeHistory(cmd.OutOrStdout(), reports)
			return nil
		},
	}
	cmd.Flags().StringVar(&bundle, "bundle", "", "only snapshots of this bundle path")
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of snapshots")

	cmd.AddCommand(c.historyShowCommand())
	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			st, err := c.newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			r, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), r, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "report format: text, table, json, yaml")
	return cmd
}

func writeHistory(w io.Writer, reports []*report.Report) {
	rows := make([][]string, len(reports))
	for i, r := range reports {
		depth := "-"
		if r.MaxDepth > 0 {
			depth = strconv.Itoa(r.MaxDepth)
		}
		rows[i] = []string{
			r.ID,
			r.Bundle,
			strconv.Itoa(r.Modules),
			strconv.Itoa(r.Dangling),
			depth,
			formatRelativeTime(r.CreatedAt),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Bundle", "Modules", "Dangling", "Max depth", "Saved").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 5:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
}
