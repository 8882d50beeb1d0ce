// Package cli implements the bundlescope command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. Reports
// are written to stdout (or --output); progress, spinners and status lines
// go to stderr so piped output stays clean.
//
// # Commands
//
// The main commands are:
//   - analyze: Report application and library modules, optionally with depths
//   - graph: Render the module dependency graph as DOT, SVG, PNG, PDF or JSON
//   - explore: Browse module depths interactively
//   - serve: Run the HTTP API
//   - history: List and show saved report snapshots
//   - cache: Manage the module cache
//
// Running "bundlescope <bundle>" is the same as "bundlescope analyze <bundle>".
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every pipeline, cache and HTTP event.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Analyzed main.jsbundle (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
