// Package progress renders a single in-place status line for an upload run.
//
// The Reporter is a ferrytypes.CompletionSink: it receives exactly one
// outcome per attempted file and redraws the line each time. It is the one
// piece of state shared by every worker, so all of its counters live behind
// a mutex.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/s3ferry/s3ferry/ferrytypes"
)

// defaultWidth pads the status line when the writer is not a terminal.
const defaultWidth = 80

// Reporter writes "<count>/<total> files uploaded" to a single line,
// overwriting the previous render with a carriage return. A non-zero error
// count is appended as "(N errors)".
type Reporter struct {
	mu     sync.Mutex
	w      io.Writer
	width  int
	total  int
	count  int
	errors int
	dirty  bool
}

var _ ferrytypes.CompletionSink = (*Reporter)(nil)

// NewReporter creates a reporter writing to w. When w is a terminal the
// line is padded to the terminal width so shorter renders fully overwrite
// longer ones.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w, width: detectWidth(w)}
}

// SetTotal sets the denominator of the status line. It is called once,
// after enumeration and before any worker starts.
func (r *Reporter) SetTotal(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
}

// TaskDone implements ferrytypes.CompletionSink.
func (r *Reporter) TaskDone(outcome ferrytypes.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	if outcome.Failed() {
		r.errors++
	}
	r.render()
}

// Finish terminates the status line with a newline so the next write to the
// terminal starts clean. Calling it without a prior render does nothing.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dirty {
		return
	}
	fmt.Fprintln(r.w)
	r.dirty = false
}

// render redraws the line. The caller holds r.mu.
func (r *Reporter) render() {
	line := fmt.Sprintf("%d/%d files uploaded", r.count, r.total)
	switch {
	case r.errors == 1:
		line += " (1 error)"
	case r.errors > 1:
		line += fmt.Sprintf(" (%d errors)", r.errors)
	}
	fmt.Fprintf(r.w, "\r%-*s", r.width, line)
	r.dirty = true
}

// detectWidth returns the terminal width of w, or defaultWidth when w is
// not a terminal.
func detectWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
