package extract

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"

	"github.com/matzehuels/bundlescope/pkg/errors"
)

const (
	// DefaultCommand is the line-matching tool spawned for each extraction.
	DefaultCommand = "rg"

	// DefaultPattern is the rg-compatible record pattern passed to the
	// search tool. It captures the module id, the dependency list and the
	// quoted verbose name.
	DefaultPattern = `},(\d+),\[(.*)\],\"(.+)\"`

	// DefaultScanPattern is the same record pattern in Go regexp syntax, used
	// by the in-process [ScanSearcher].
	DefaultScanPattern = `\},(\d+),\[(.*)\],"(.+)"`
)

// Stream is the standard output of one running search. Callers must read it
// to EOF (or abandon it by cancelling the search context) and then call Wait
// exactly once to release the search.
type Stream interface {
	io.Reader

	// Wait blocks until the search has finished. A search that exits
	// non-zero returns *errors.ExitError carrying everything it wrote to
	// its error stream.
	Wait() error
}

// Searcher starts a line-matching search over a bundle file.
type Searcher interface {
	// Name identifies the searcher in logs and cache keys.
	Name() string

	// Start launches the search. Failing to start at all (binary missing,
	// permission denied, unreadable file) returns ErrCodeExtractionFailed.
	Start(ctx context.Context, path string) (Stream, error)
}

// CommandFunc builds the command for a process search. It matches
// exec.CommandContext and exists so tests can substitute a helper process.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// ProcessSearcher runs an external tool (ripgrep by default) as
// `<Command> <Pattern> <path>` and streams its standard output.
type ProcessSearcher struct {
	Command string
	Pattern string

	commandFunc CommandFunc
}

// NewProcessSearcher returns a searcher for command and pattern.
// Empty arguments fall back to [DefaultCommand] and [DefaultPattern].
func NewProcessSearcher(command, pattern string) *ProcessSearcher {
	if command == "" {
		command = DefaultCommand
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &ProcessSearcher{
		Command:     command,
		Pattern:     pattern,
		commandFunc: exec.CommandContext,
	}
}

// Name returns the command name.
func (s *ProcessSearcher) Name() string { return s.Command }

// Start spawns the search process.
func (s *ProcessSearcher) Start(ctx context.Context, path string) (Stream, error) {
	newCmd := s.commandFunc
	if newCmd == nil {
		newCmd = exec.CommandContext
	}
	cmd := newCmd(ctx, s.Command, s.Pattern, path)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtractionFailed, err, "open %s output", s.Command)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtractionFailed, err, "start %s", s.Command)
	}
	return &processStream{Reader: stdout, cmd: cmd, stderr: stderr}, nil
}

type processStream struct {
	io.Reader
	cmd    *exec.Cmd
	stderr *bytes.Buffer
}

func (p *processStream) Wait() error {
	err := p.cmd.Wait()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return &errors.ExitError{Code: exitErr.ExitCode(), Stderr: p.stderr.String()}
	}
	// Killed by a signal (context cancellation) or an I/O failure.
	if p.stderr.Len() > 0 {
		return fmt.Errorf("%w: %s", err, p.stderr.String())
	}
	return err
}

// ScanSearcher matches lines in-process with a Go regular expression. It
// behaves like a search tool: matching lines are written to the stream
// newline-terminated, and a search without matches ends with exit code 1 and
// no error text.
type ScanSearcher struct {
	re *regexp.Regexp
}

// NewScanSearcher compiles pattern (Go regexp syntax). An empty pattern uses
// [DefaultScanPattern].
func NewScanSearcher(pattern string) (*ScanSearcher, error) {
	if pattern == "" {
		pattern = DefaultScanPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "compile scan pattern %q", pattern)
	}
	return &ScanSearcher{re: re}, nil
}

// Name returns "builtin".
func (s *ScanSearcher) Name() string { return "builtin" }

// Start opens path and begins scanning it in a goroutine.
func (s *ScanSearcher) Start(ctx context.Context, path string) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtractionFailed, err, "open %s", path)
	}

	pr, pw := io.Pipe()
	st := &scanStream{Reader: pr, done: make(chan struct{})}
	// Unblock the writer when the consumer gives up on the stream.
	st.stop = context.AfterFunc(ctx, func() { pr.CloseWithError(ctx.Err()) })
	go func() {
		defer close(st.done)
		defer f.Close()
		st.matches, st.err = s.scan(ctx, f, pw)
		pw.CloseWithError(st.err)
	}()
	return st, nil
}

func (s *ScanSearcher) scan(ctx context.Context, r io.Reader, w io.Writer) (int, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	matches := 0
	for {
		if err := ctx.Err(); err != nil {
			return matches, err
		}
		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			body := bytes.TrimRight(line, "\r\n")
			if s.re.Match(body) {
				matches++
				if _, err := w.Write(append(body, '\n')); err != nil {
					return matches, err
				}
			}
		}
		if readErr == io.EOF {
			return matches, nil
		}
		if readErr != nil {
			return matches, readErr
		}
	}
}

type scanStream struct {
	io.Reader
	done    chan struct{}
	stop    func() bool
	matches int
	err     error
}

func (s *scanStream) Wait() error {
	<-s.done
	s.stop()
	switch {
	case s.err == nil && s.matches == 0:
		return &errors.ExitError{Code: 1}
	case s.err == nil:
		return nil
	case stderrors.Is(s.err, context.Canceled),
		stderrors.Is(s.err, context.DeadlineExceeded),
		stderrors.Is(s.err, io.ErrClosedPipe):
		return s.err
	}
	return &errors.ExitError{Code: 2, Stderr: s.err.Error()}
}
