// Package shell provides the process runner adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"

	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Runner = (*Runner)(nil)

// Runner implements ports.Runner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner. Output destined for a nil writer is logged line by line.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes inv in inv.Dir and waits for it to exit.
func (r *Runner) Run(ctx context.Context, inv domain.Invocation, stdout, stderr io.Writer) error {
	if inv.Empty() {
		return nil
	}

	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...) //nolint:gosec // command synthesized from the action catalog
	if inv.Dir != "" {
		cmd.Dir = inv.Dir
	}

	outLog := &logWriter{logger: r.logger, level: "info"}
	errLog := &logWriter{logger: r.logger, level: "error"}
	cmd.Stdout = pick(stdout, outLog)
	cmd.Stderr = pick(stderr, errLog)

	err := cmd.Run()
	_ = outLog.Close()
	_ = errLog.Close()

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrCommandFailed, err.Error()),
			"program", inv.Program), "exit_code", exitCode)
	}
	return nil
}

func pick(w io.Writer, fallback *logWriter) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

// logWriter buffers partial writes and forwards complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	level  string

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Keep the unterminated tail for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(line[:len(line)-1])
	}
	return len(p), nil
}

// Close flushes a trailing line without a newline.
func (w *logWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
	return nil
}

func (w *logWriter) emit(line string) {
	if w.level == "info" {
		w.logger.Info(line)
		return
	}
	w.logger.Error(zerr.New(line))
}
