package ports

import (
	"io"

	"go.trai.ch/hoist/internal/core/domain"
)

// Reporter observes a batch. Implementations must be safe for concurrent use.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// OnPlan is called once with every target in submission order.
	OnPlan(targets []string)

	// OnTransition is called for every phase change of every target.
	OnTransition(tr domain.Transition)

	// Output returns the writers receiving the child process output of target.
	Output(target string) (stdout, stderr io.Writer)

	// Close flushes buffered output once the batch is done.
	Close() error
}
