// Package linear provides a line-oriented reporter for CI and non-interactive terminals.
package linear

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports"
)

// Icons used in status lines.
const (
	Check = "✓"
	Cross = "✗"
	Tilde = "~"
)

var _ ports.Reporter = (*Reporter)(nil)

// Reporter prints chronological, target-prefixed output.
// Status lines go to stderr and child output goes to stdout.
type Reporter struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	labels  map[string]string
	started map[string]time.Time
	streams map[string][]*lineWriter
}

// NewReporter creates a Reporter. Nil writers default to os.Stdout and os.Stderr.
func NewReporter(stdout, stderr io.Writer) *Reporter {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Reporter{
		stdout:  stdout,
		stderr:  stderr,
		output:  termenv.NewOutput(stderr, termenv.WithProfile(colorProfile())),
		labels:  make(map[string]string),
		started: make(map[string]time.Time),
		streams: make(map[string][]*lineWriter),
	}
}

func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// OnPlan prints the planned targets and assigns each a short label.
func (r *Reporter) OnPlan(targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.labels = Labels(targets)
	_, _ = fmt.Fprintf(r.stderr, "Planning to run %d target(s)\n", len(targets))
}

// OnTransition prints running and terminal transitions. Queued transitions are silent.
func (r *Reporter) OnTransition(tr domain.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := r.prefixLocked(tr.Target)
	switch tr.Phase {
	case domain.PhaseQueued:
	case domain.PhaseRunning:
		r.started[tr.Target] = tr.At
		if tr.Command == "" {
			_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
			return
		}
		_, _ = fmt.Fprintf(r.stderr, "%s $ %s\n", prefix, tr.Command)
	case domain.PhaseSucceeded:
		r.flushLocked(tr.Target)
		if tr.Skipped != domain.SkipNone {
			symbol := r.output.String(Tilde).Foreground(termenv.ANSIYellow).String()
			_, _ = fmt.Fprintf(r.stderr, "%s %s Skipped (%s)\n", prefix, symbol, tr.Skipped)
			return
		}
		symbol := r.output.String(Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, r.elapsedLocked(tr))
	case domain.PhaseFailed:
		r.flushLocked(tr.Target)
		symbol := r.output.String(Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, r.elapsedLocked(tr), tr.Err)
	}
}

// Output returns writers that prefix every complete line with the target label.
func (r *Reporter) Output(target string) (io.Writer, io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := &lineWriter{r: r, target: target}
	errw := &lineWriter{r: r, target: target}
	r.streams[target] = append(r.streams[target], out, errw)
	return out, errw
}

// Close flushes partial lines of every target.
func (r *Reporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for target := range r.streams {
		r.flushLocked(target)
	}
	return nil
}

func (r *Reporter) prefixLocked(target string) string {
	label, ok := r.labels[target]
	if !ok {
		label = target
	}
	return r.output.String("[" + label + "]").Faint().String()
}

func (r *Reporter) elapsedLocked(tr domain.Transition) time.Duration {
	start, ok := r.started[tr.Target]
	if !ok || tr.At.Before(start) {
		return 0
	}
	return tr.At.Sub(start).Round(time.Millisecond)
}

func (r *Reporter) flushLocked(target string) {
	for _, w := range r.streams[target] {
		if w.buf.Len() > 0 {
			r.printLineLocked(target, w.buf.Bytes())
			w.buf.Reset()
		}
	}
	delete(r.streams, target)
}

func (r *Reporter) printLineLocked(target string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", r.prefixLocked(target), line)
}

// lineWriter buffers one stream of one target until a newline arrives.
type lineWriter struct {
	r      *Reporter
	target string
	buf    bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.r.mu.Lock()
	defer w.r.mu.Unlock()

	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := w.buf.Next(idx + 1)
		w.r.printLineLocked(w.target, line)
	}
	return len(p), nil
}

// Labels maps every target to its base name, falling back to the full path when base names collide.
func Labels(targets []string) map[string]string {
	count := make(map[string]int, len(targets))
	for _, t := range targets {
		count[filepath.Base(t)]++
	}
	labels := make(map[string]string, len(targets))
	for _, t := range targets {
		base := filepath.Base(t)
		if count[base] > 1 {
			labels[t] = t
			continue
		}
		labels[t] = base
	}
	return labels
}
