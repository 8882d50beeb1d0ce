package extract

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bundlescope/pkg/errors"
)

// DefaultChunkSize is the read buffer used when draining a search stream.
// Record reassembly only ever holds one partial line beyond this.
const DefaultChunkSize = 32 * 1024

// Options configures an [Extractor].
type Options struct {
	// Searcher performs the line matching. Defaults to a [ProcessSearcher]
	// running ripgrep with [DefaultPattern].
	Searcher Searcher

	// ChunkSize is the maximum number of bytes read from the stream at once.
	// Defaults to [DefaultChunkSize].
	ChunkSize int

	// Logger receives debug output. Defaults to log.Default().
	Logger *log.Logger
}

// Result is the outcome of one extraction.
type Result struct {
	Path     string        // Bundle file that was searched
	Searcher string        // Name of the searcher used
	Lines    []string      // Complete candidate record lines, in stream order
	Chunks   int           // Number of reads taken from the stream
	Bytes    int64         // Total bytes read from the stream
	Duration time.Duration // Wall time including process startup

	// NoMatches is set when the search exited non-zero without error text,
	// which search tools use to report that nothing matched. Lines is empty.
	NoMatches bool
}

// Extractor finds candidate module record lines in a bundle file.
//
// Each call to [Extractor.Extract] starts exactly one search and always waits
// for it to finish, on success and on failure. An Extractor holds no state
// between calls and may be shared.
type Extractor struct {
	searcher  Searcher
	chunkSize int
	logger    *log.Logger
}

// New creates an Extractor, filling unset options with defaults.
func New(opts Options) *Extractor {
	if opts.Searcher == nil {
		opts.Searcher = NewProcessSearcher("", "")
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Extractor{
		searcher:  opts.Searcher,
		chunkSize: opts.ChunkSize,
		logger:    opts.Logger,
	}
}

// Searcher returns the configured searcher.
func (e *Extractor) Searcher() Searcher { return e.searcher }

// Extract searches path and returns every complete record line.
//
// Errors:
//   - ErrCodeExtractionFailed: the search could not start, or it exited
//     non-zero with error text (the text is the error message, verbatim)
//   - ErrCodeTruncatedRecord: the stream ended in the middle of a record
//
// A search that exits non-zero with no error text is not an error; the
// result has NoMatches set.
func (e *Extractor) Extract(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.logger.Debug("starting search", "searcher", e.searcher.Name(), "path", path)
	stream, err := e.searcher.Start(searchCtx, path)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: path, Searcher: e.searcher.Name()}
	var readErr error
	res.Lines, res.Chunks, res.Bytes, readErr = collect(stream, e.chunkSize)
	if readErr != nil && !errors.Is(readErr, errors.ErrCodeTruncatedRecord) {
		// Stop the producer before reaping it; it may be blocked on a full pipe.
		cancel()
	}
	waitErr := stream.Wait()
	res.Duration = time.Since(start)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var exit *errors.ExitError
	isExit := stderrors.As(waitErr, &exit)
	if readErr != nil {
		// A failing search explains a cut-off stream better than the cut itself.
		if isExit && !exit.NoMatches() {
			return nil, errors.New(errors.ErrCodeExtractionFailed, "%s", exit.Stderr)
		}
		return nil, readErr
	}
	if waitErr != nil {
		if isExit {
			if exit.NoMatches() {
				e.logger.Debug("search found no records", "path", path, "exit", exit.Code)
				res.Lines = nil
				res.NoMatches = true
				return res, nil
			}
			return nil, errors.New(errors.ErrCodeExtractionFailed, "%s", exit.Stderr)
		}
		return nil, errors.Wrap(errors.ErrCodeExtractionFailed, waitErr, "search %s", path)
	}

	e.logger.Debug("search finished",
		"path", path,
		"lines", len(res.Lines),
		"chunks", res.Chunks,
		"bytes", res.Bytes,
		"duration", res.Duration)
	return res, nil
}

// Collect reads r to EOF using reads of at most chunkSize bytes and returns
// the reassembled record lines. It is the stream half of [Extractor.Extract],
// usable on any reader.
func Collect(r io.Reader, chunkSize int) ([]string, error) {
	lines, _, _, err := collect(r, chunkSize)
	return lines, err
}

func collect(r io.Reader, chunkSize int) ([]string, int, int64, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	var (
		rs     Reassembler
		lines  []string
		chunks int
		total  int64
	)
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunks++
			total += int64(n)
			lines = append(lines, rs.Feed(buf[:n])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return lines, chunks, total, fmt.Errorf("read search output: %w", err)
		}
	}
	if err := rs.Close(); err != nil {
		return lines, chunks, total, err
	}
	return lines, chunks, total, nil
}
