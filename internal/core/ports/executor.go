// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/hoist/internal/core/domain"
)

// Runner runs a single child process.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Runner interface {
	// Run executes inv.Program with inv.Args in inv.Dir, streaming output to stdout and stderr.
	// It returns an error if the process cannot start or exits non-zero.
	Run(ctx context.Context, inv domain.Invocation, stdout, stderr io.Writer) error
}

// Installer places a built artifact where it can be invoked by name.
type Installer interface {
	// Install copies artifact into the install directory as name and returns the destination.
	Install(ctx context.Context, artifact, name string) (string, error)
}
