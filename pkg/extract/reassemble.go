package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/bundlescope/pkg/errors"
)

// RecordTerminator closes every module record in a bundle. A chunk whose
// final piece does not end with it is still mid-record.
const RecordTerminator = ");"

// Reassembler rebuilds complete record lines from a byte stream delivered in
// arbitrarily sized chunks.
//
// Each chunk is split on newlines. A partial line left over from the previous
// chunk is prepended to the first piece of the next one, and a final piece
// that does not end with [RecordTerminator] is held back until more data
// arrives. Empty pieces are dropped.
//
// The zero value is ready to use. A Reassembler is not safe for concurrent use.
type Reassembler struct {
	carry string
	lines int
}

// Feed consumes one chunk and returns the lines it completed, in stream order.
func (r *Reassembler) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}
	pieces := strings.Split(string(chunk), "\n")

	if r.carry != "" {
		pieces[0] = r.carry + pieces[0]
		r.carry = ""
	}

	last := len(pieces) - 1
	if !strings.HasSuffix(trimCR(pieces[last]), RecordTerminator) {
		r.carry = pieces[last]
		pieces = pieces[:last]
	}

	lines := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p = trimCR(p); p != "" {
			lines = append(lines, p)
		}
	}
	r.lines += len(lines)
	return lines
}

// Pending returns the partial line currently held back.
func (r *Reassembler) Pending() string { return r.carry }

// Lines returns how many complete lines have been emitted so far.
func (r *Reassembler) Lines() int { return r.lines }

// Close ends the stream. Leftover text means the stream stopped inside a
// record and is reported as ErrCodeTruncatedRecord.
func (r *Reassembler) Close() error {
	if rest := trimCR(r.carry); rest != "" {
		return errors.New(errors.ErrCodeTruncatedRecord,
			"stream ended inside a record (%d bytes pending): %s", len(rest), preview(rest))
	}
	r.carry = ""
	return nil
}

func trimCR(s string) string { return strings.TrimSuffix(s, "\r") }

// preview shortens s for error messages; records can be kilobytes long.
func preview(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	n := max
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
