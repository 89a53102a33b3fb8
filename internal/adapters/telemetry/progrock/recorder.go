// Package progrock provides a Reporter that records every target as a progrock vertex.
package progrock

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports"
)

var _ ports.Reporter = (*Recorder)(nil)

// Recorder implements ports.Reporter using the vito/progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu       sync.Mutex
	vertices map[string]*progrock.VertexRecorder
}

// New creates a Recorder rendering to out through a Console.
func New(out io.Writer) *Recorder {
	return NewRecorder(NewConsole(out))
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:        w,
		rec:      progrock.NewRecorder(w),
		vertices: make(map[string]*progrock.VertexRecorder),
	}
}

// VertexDigest returns the vertex id used for target.
func VertexDigest(target string) digest.Digest {
	return digest.FromString(target)
}

// OnPlan does nothing; vertices are created when a target starts running.
func (r *Recorder) OnPlan([]string) {}

// OnTransition starts and completes vertices.
func (r *Recorder) OnTransition(tr domain.Transition) {
	switch tr.Phase {
	case domain.PhaseQueued:
	case domain.PhaseRunning:
		v := r.vertex(tr.Target)
		if tr.Command != "" {
			_, _ = fmt.Fprintf(v.Stderr(), "$ %s\n", tr.Command)
		}
	case domain.PhaseSucceeded:
		v := r.vertex(tr.Target)
		if tr.Skipped != domain.SkipNone {
			_, _ = fmt.Fprintf(v.Stderr(), "skipped: %s\n", tr.Skipped)
		}
		v.Done(nil)
	case domain.PhaseFailed:
		err := tr.Err
		if err == nil {
			err = errors.New("failed")
		}
		r.vertex(tr.Target).Done(err)
	}
}

// Output returns the vertex log streams of target.
func (r *Recorder) Output(target string) (io.Writer, io.Writer) {
	v := r.vertex(target)
	return v.Stdout(), v.Stderr()
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.w.Close()
}

func (r *Recorder) vertex(target string) *progrock.VertexRecorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.vertices[target]; ok {
		return v
	}
	v := r.rec.Vertex(VertexDigest(target), target)
	r.vertices[target] = v
	return v
}
