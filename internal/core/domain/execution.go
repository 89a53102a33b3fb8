package domain

import "time"

// Phase is the lifecycle state of one target inside a batch.
// A target moves Queued → Running → Succeeded|Failed. The only exception is a target whose
// context ends while it waits for a permit: it goes straight from Queued to Failed.
type Phase string

const (
	// PhaseQueued means the target is waiting for a permit.
	PhaseQueued Phase = "queued"
	// PhaseRunning means the target holds a permit and its command is executing.
	PhaseRunning Phase = "running"
	// PhaseSucceeded means the target finished without error.
	PhaseSucceeded Phase = "succeeded"
	// PhaseFailed means the target finished with an error.
	PhaseFailed Phase = "failed"
)

// IsTerminal reports whether no further transitions follow.
func (p Phase) IsTerminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Transition is emitted whenever a target changes phase.
type Transition struct {
	Target string
	Phase  Phase
	At     time.Time
	// Command is the planned command line, set on the Running transition.
	Command string
	// Skipped is set on the Succeeded transition of a target with nothing to run.
	Skipped SkipReason
	Err     error
}

// ExecutionResult is the outcome of one target in a batch.
type ExecutionResult struct {
	Target     string
	Success    bool
	Err        error
	Skipped    SkipReason
	Invocation Invocation
}

// BatchResult collects per-target results in submission order.
type BatchResult struct {
	Results []ExecutionResult
}

// Failed returns the results that did not succeed.
func (b BatchResult) Failed() []ExecutionResult {
	var out []ExecutionResult
	for _, r := range b.Results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}

// Succeeded reports whether every target succeeded.
func (b BatchResult) Succeeded() bool {
	return len(b.Failed()) == 0
}
