// Package scheduler runs the synthesized commands of many targets under a concurrency cap.
package scheduler

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports"
	"go.trai.ch/hoist/internal/engine/synth"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Span names emitted by the scheduler.
const (
	SpanBatch   = "hoist.batch"
	SpanTarget  = "hoist.target"
	SpanRun     = "hoist.phase.run"
	SpanBuild   = "hoist.phase.build"
	SpanInstall = "hoist.phase.install"
)

// Options configures a single batch.
type Options struct {
	// Parallelism caps the number of concurrently running targets. Zero means runtime.NumCPU().
	Parallelism int
	// DryRun synthesizes and reports every command without running it.
	DryRun bool
	// BuildDir receives the artifacts of two-phase builds.
	BuildDir string
	// Reporter observes the batch. Nil discards every event.
	Reporter ports.Reporter
}

// Scheduler executes one invocation per target. Targets never cancel each other.
type Scheduler struct {
	runner    ports.Runner
	installer ports.Installer
	tracer    ports.Tracer
	clock     clockwork.Clock
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock stamping transitions.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// NewScheduler creates a new Scheduler.
func NewScheduler(runner ports.Runner, installer ports.Installer, tracer ports.Tracer, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:    runner,
		installer: installer,
		tracer:    tracer,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run synthesizes and executes sel for every descriptor and returns one result per target in
// submission order. The returned error is non-nil iff at least one target failed and joins
// domain.ErrBatchFailed with every target error.
func (s *Scheduler) Run(
	ctx context.Context,
	descs []domain.TargetDescriptor,
	sel domain.SelectionSet,
	opts Options,
) (domain.BatchResult, error) {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	rep := opts.Reporter
	if rep == nil {
		rep = nopReporter{}
	}

	targets := make([]string, len(descs))
	for i, d := range descs {
		targets[i] = d.Path
	}

	ctx, span := s.tracer.Start(ctx, SpanBatch)
	defer span.End()
	span.SetAttribute("targets", targets)
	span.SetAttribute("parallelism", parallelism)
	span.SetAttribute("dry_run", opts.DryRun)

	rep.OnPlan(targets)
	for _, t := range targets {
		s.emit(rep, domain.Transition{Target: t, Phase: domain.PhaseQueued})
	}

	run := &batch{
		s:     s,
		sem:   semaphore.NewWeighted(int64(parallelism)),
		synth: synth.New(opts.BuildDir),
		sel:   sel,
		dry:   opts.DryRun,
		rep:   rep,

		artifacts: make(map[string]*sync.Mutex),
	}

	results := make([]domain.ExecutionResult, len(descs))
	var g errgroup.Group
	for i, d := range descs {
		g.Go(func() error {
			results[i] = run.target(ctx, d)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) == 0 {
		return domain.BatchResult{Results: results}, nil
	}

	err := errors.Join(append([]error{domain.ErrBatchFailed}, errs...)...)
	span.RecordError(domain.ErrBatchFailed)
	span.SetAttribute("failed", len(errs))
	return domain.BatchResult{Results: results}, err
}

func (s *Scheduler) emit(rep ports.Reporter, tr domain.Transition) {
	tr.At = s.clock.Now()
	rep.OnTransition(tr)
}

// batch holds the per-Run state shared by every target goroutine.
type batch struct {
	s     *Scheduler
	sem   *semaphore.Weighted
	synth *synth.Synthesizer
	sel   domain.SelectionSet
	dry   bool
	rep   ports.Reporter

	mu sync.Mutex
	// artifacts serializes two-phase targets that build to the same artifact path.
	artifacts map[string]*sync.Mutex
}

func (b *batch) artifactLock(path string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.artifacts[path]
	if !ok {
		l = &sync.Mutex{}
		b.artifacts[path] = l
	}
	return l
}

func (b *batch) target(ctx context.Context, desc domain.TargetDescriptor) domain.ExecutionResult {
	res := domain.ExecutionResult{Target: desc.Path}

	if err := b.sem.Acquire(ctx, 1); err != nil {
		return b.fail(res, err)
	}
	defer b.sem.Release(1)

	ctx, span := b.s.tracer.Start(ctx, SpanTarget)
	defer span.End()
	span.SetAttribute("target", desc.Path)
	span.SetAttribute("kind", desc.Kind.String())

	inv, err := b.synth.Synthesize(desc, b.sel)
	if err != nil {
		span.RecordError(err)
		b.s.emit(b.rep, domain.Transition{Target: desc.Path, Phase: domain.PhaseRunning})
		return b.fail(res, err)
	}
	res.Invocation = inv
	res.Skipped = inv.Skip

	cmdLine := inv.CommandLine()
	span.SetAttribute("command", cmdLine)
	b.s.emit(b.rep, domain.Transition{Target: desc.Path, Phase: domain.PhaseRunning, Command: cmdLine})

	if !inv.Empty() && !b.dry {
		stdout, stderr := b.rep.Output(desc.Path)
		if err := b.execute(ctx, inv, stdout, stderr); err != nil {
			span.RecordError(err)
			return b.fail(res, err)
		}
	}

	if inv.Skip != domain.SkipNone {
		span.SetAttribute("skipped", string(inv.Skip))
	}
	res.Success = true
	b.s.emit(b.rep, domain.Transition{Target: desc.Path, Phase: domain.PhaseSucceeded, Skipped: inv.Skip})
	return res
}

// execute runs inv. Two-phase invocations install the artifact only after a successful build.
func (b *batch) execute(ctx context.Context, inv domain.Invocation, stdout, stderr io.Writer) error {
	if !inv.TwoPhase() {
		return b.phase(ctx, SpanRun, func(ctx context.Context) error {
			return b.s.runner.Run(ctx, inv, stdout, stderr)
		})
	}

	// The artifact is removed on install, so a sibling must not build over it in between.
	lock := b.artifactLock(inv.Artifact)
	lock.Lock()
	defer lock.Unlock()

	err := b.phase(ctx, SpanBuild, func(ctx context.Context) error {
		return b.s.runner.Run(ctx, inv, stdout, stderr)
	})
	if err != nil {
		return zerr.With(errors.Join(domain.ErrBuildPhaseFailed, err), "phase", "build")
	}

	err = b.phase(ctx, SpanInstall, func(ctx context.Context) error {
		_, err := b.s.installer.Install(ctx, inv.Artifact, inv.InstallName)
		return err
	})
	if err != nil {
		return zerr.With(errors.Join(domain.ErrInstallPhaseFailed, err), "phase", "install")
	}
	return nil
}

func (b *batch) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := b.s.tracer.Start(ctx, name)
	defer span.End()
	err := fn(ctx)
	span.RecordError(err)
	return err
}

func (b *batch) fail(res domain.ExecutionResult, err error) domain.ExecutionResult {
	res.Err = zerr.With(err, "target", res.Target)
	b.s.emit(b.rep, domain.Transition{Target: res.Target, Phase: domain.PhaseFailed, Err: res.Err})
	return res
}

type nopReporter struct{}

func (nopReporter) OnPlan([]string)                      {}
func (nopReporter) OnTransition(domain.Transition)       {}
func (nopReporter) Output(string) (io.Writer, io.Writer) { return io.Discard, io.Discard }
func (nopReporter) Close() error                         { return nil }
