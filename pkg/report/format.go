package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format selects how a report is written.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatTable, FormatJSON, FormatYAML}

// ParseFormat parses a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid: text, table, json, yaml)", s)
	}
}

// Write renders r to w in the given format.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, r)
	case FormatTable:
		return WriteTable(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(r)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteText writes the plain report: the counts, the application and library
// name lists, and, when depths were computed, one
// "name,id,dependencyCount,depth" line per module in ascending depth order.
func WriteText(w io.Writer, r *Report) error {
	ew := &errWriter{w: w}
	ew.printf("%d module lines found\n", r.MatchedLines)
	ew.printf("%d modules found\n", r.Modules)
	ew.printf("%d app modules found\n", len(r.Application))
	ew.printf("%d library modules found\n", len(r.Library))
	if r.Failed > 0 {
		ew.printf("%d unparseable %s skipped\n", r.Failed, plural(r.Failed, "line", "lines"))
	}

	ew.printf("app modules:\n")
	for _, name := range r.Application {
		ew.printf("%s\n", name)
	}
	ew.printf("library modules:\n")
	for _, name := range r.Library {
		ew.printf("%s\n", name)
	}

	if r.Depths != nil {
		ew.printf("module,id,dependencyCount,depth\n")
		for _, d := range r.Depths {
			ew.printf("%s,%s,%d,%d\n", d.Name, d.ID, d.Dependencies, d.Depth)
		}
		ew.printf("max depth %d, %d dangling %s, %d cyclic %s\n",
			r.MaxDepth,
			r.Dangling, plural(r.Dangling, "dependency", "dependencies"),
			r.Cyclic, plural(r.Cyclic, "module", "modules"))
	}
	return ew.err
}

// WriteTable writes a summary table followed by a module table. The module
// table carries depths when they were computed.
func WriteTable(w io.Writer, r *Report) error {
	summary := [][]string{
		{"Bundle", r.Bundle},
		{"Matched lines", strconv.Itoa(r.MatchedLines)},
		{"Modules", strconv.Itoa(r.Modules)},
		{"Application", strconv.Itoa(len(r.Application))},
		{"Library", strconv.Itoa(len(r.Library))},
		{"Unparseable", strconv.Itoa(r.Failed)},
		{"Dangling deps", strconv.Itoa(r.Dangling)},
		{"Cyclic", strconv.Itoa(r.Cyclic)},
	}
	if r.Depths != nil {
		summary = append(summary, []string{"Max depth", strconv.Itoa(r.MaxDepth)})
	}
	renderTable(w, []string{"Metric", "Value"}, summary)
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if r.Depths != nil {
		rows := make([][]string, len(r.Depths))
		for i, d := range r.Depths {
			rows[i] = []string{
				d.Name, d.ID, kind(d.Library),
				strconv.Itoa(d.Dependencies), strconv.Itoa(d.Depth),
			}
		}
		renderTable(w, []string{"Module", "ID", "Kind", "Deps", "Depth"}, rows)
		return nil
	}

	rows := make([][]string, 0, len(r.Application)+len(r.Library))
	for _, name := range r.Application {
		rows = append(rows, []string{name, kind(false)})
	}
	for _, name := range r.Library {
		rows = append(rows, []string{name, kind(true)})
	}
	renderTable(w, []string{"Module", "Kind"}, rows)
	return nil
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}

func kind(library bool) string {
	if library {
		return "library"
	}
	return "app"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// errWriter keeps the first write error so a sequence of prints can be
// checked once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
