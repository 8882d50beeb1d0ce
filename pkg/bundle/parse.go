package bundle

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bundlescope/pkg/errors"
)

// RecordPattern matches the tail of a module record. Group 1 is the id,
// group 2 the dependency list and group 3 the verbose name. The name group is
// greedy up to the last quote on the line, so commas and escaped quotes in
// the name stay inside it.
const RecordPattern = `\},(\d+),\[([\d,\s]*)\],"(.+)"`

var recordRE = regexp.MustCompile(RecordPattern)

// ParseOptions configures [Parse].
type ParseOptions struct {
	// Logger receives one warning per unparseable line and per duplicate id.
	// Defaults to log.Default().
	Logger *log.Logger
}

// ParseResult holds the modules parsed from a set of record lines and the
// accounting for lines that did not produce one.
type ParseResult struct {
	Modules     []Module `json:"modules"`
	Failed      int      `json:"failed"`                 // Lines that did not match the record pattern
	FailedLines []string `json:"failed_lines,omitempty"` // The failing lines, in input order
	Skipped     int      `json:"skipped"`                // Blank or whitespace-only lines
	Duplicates  int      `json:"duplicates"`             // Records whose id was already seen
}

// Parse turns record lines into modules.
//
// Parse never fails as a whole: each line either becomes a module, is
// skipped as blank, or is counted in Failed. A repeated id replaces the
// earlier record in place.
func Parse(lines []string, opts ParseOptions) *ParseResult {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	res := &ParseResult{Modules: make([]Module, 0, len(lines))}
	seen := make(map[string]int, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			res.Skipped++
			continue
		}
		m, err := ParseLine(line)
		if err != nil {
			res.Failed++
			res.FailedLines = append(res.FailedLines, line)
			logger.Warn("skipping unparseable record", "line", line, "length", len(line))
			continue
		}
		if i, ok := seen[m.ID]; ok {
			res.Duplicates++
			logger.Warn("duplicate module id", "id", m.ID,
				"previous", res.Modules[i].VerboseName, "name", m.VerboseName)
			res.Modules[i] = m
			continue
		}
		seen[m.ID] = len(res.Modules)
		res.Modules = append(res.Modules, m)
	}
	return res
}

// ParseLine parses a single record line. A line that does not match
// [RecordPattern] returns ErrCodeUnparseableLine.
func ParseLine(line string) (Module, error) {
	match := recordRE.FindStringSubmatch(line)
	if match == nil {
		return Module{}, errors.New(errors.ErrCodeUnparseableLine, "no module record in %q", preview(line))
	}
	return Module{
		ID:           match[1],
		VerboseName:  unescapeName(match[3]),
		Dependencies: splitIDs(match[2]),
	}, nil
}

// splitIDs splits a comma-joined id list. An empty list yields an empty,
// non-nil slice.
func splitIDs(list string) []string {
	ids := []string{}
	for _, tok := range strings.Split(list, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			ids = append(ids, tok)
		}
	}
	return ids
}

// unescapeName decodes the JSON string escapes the bundler writes into names.
// Names that are not valid JSON string bodies are returned unchanged.
func unescapeName(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var s string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err != nil {
		return raw
	}
	return s
}

func preview(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	n := max
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
