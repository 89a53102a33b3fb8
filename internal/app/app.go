// Package app implements the application layer for hoist.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/hoist/internal/adapters/config"                           //nolint:depguard // Wired in app layer
	"go.trai.ch/hoist/internal/adapters/detector"                         //nolint:depguard // Wired in app layer
	"go.trai.ch/hoist/internal/adapters/linear"                           //nolint:depguard // Wired in app layer
	hoistprogrock "go.trai.ch/hoist/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports"
	"go.trai.ch/hoist/internal/engine/detect"
	"go.trai.ch/hoist/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	settings  domain.Settings
	resolver  *detect.Resolver
	cache     ports.DescriptorCache
	scheduler *scheduler.Scheduler
	logger    ports.Logger

	stdout io.Writer
	stderr io.Writer
	env    detector.Environment
}

// New creates a new App instance.
func New(
	settings domain.Settings,
	resolver *detect.Resolver,
	cache ports.DescriptorCache,
	sched *scheduler.Scheduler,
	log ports.Logger,
) *App {
	return &App{
		settings:  settings.WithDefaults(),
		resolver:  resolver,
		cache:     cache,
		scheduler: sched,
		logger:    log,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		env:       detector.DetectEnvironment(),
	}
}

// WithOutput sets the streams reporters write to.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithEnvironment overrides the detected terminal environment.
func (a *App) WithEnvironment(env detector.Environment) *App {
	a.env = env
	return a
}

// Settings returns the effective settings.
func (a *App) Settings() domain.Settings {
	return a.settings
}

// Overrides holds command-line settings. Zero values leave the loaded settings untouched.
type Overrides struct {
	MaxAge      string
	Parallelism int
	Output      string
	JSONLogs    bool
}

// jsonLogger is implemented by loggers that can switch to JSON output.
type jsonLogger interface {
	SetJSON(enabled bool)
}

// Apply layers command-line overrides on top of the loaded settings.
func (a *App) Apply(o Overrides) error {
	if o.MaxAge != "" {
		d, err := config.ParseDuration(o.MaxAge)
		if err != nil {
			return zerr.With(err, "flag", "cache-max-age")
		}
		a.settings.MaxAge = d
		a.cache.SetMaxAge(d)
	}
	if o.Parallelism > 0 {
		a.settings.Parallelism = o.Parallelism
	}
	if o.Output != "" {
		if err := config.ValidateOutput(o.Output); err != nil {
			return zerr.With(err, "flag", "output")
		}
		a.settings.Output = o.Output
	}
	if o.JSONLogs {
		a.settings.JSONLogs = true
	}
	if jl, ok := a.logger.(jsonLogger); ok {
		jl.SetJSON(a.settings.JSONLogs)
	}
	return nil
}

// Actions resolves targets and returns the catalog offered for all of them.
func (a *App) Actions(_ context.Context, targets []string) (domain.Catalog, []domain.TargetDescriptor, error) {
	descs, err := a.resolver.ResolveAll(targets, false)
	if err != nil {
		return nil, nil, err
	}
	return detect.CommonCatalog(descs), descs, nil
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Actions are "flag" or "flag=value" tokens in selection order.
	Actions []string
	DryRun  bool
	Refresh bool
	// Parallelism overrides the configured cap when positive.
	Parallelism int
}

// Run resolves targets, validates the selection against their common catalog and executes it.
// A contract violation is returned before any target starts.
func (a *App) Run(ctx context.Context, targets []string, opts RunOptions) (domain.BatchResult, error) {
	sel, err := domain.ParseSelection(opts.Actions)
	if err != nil {
		return domain.BatchResult{}, err
	}

	descs, err := a.resolver.ResolveAll(targets, opts.Refresh)
	if err != nil {
		return domain.BatchResult{}, err
	}

	if known(descs) {
		if err := sel.Validate(detect.CommonCatalog(descs)); err != nil {
			return domain.BatchResult{}, err
		}
	}

	parallelism := a.settings.Parallelism
	if opts.Parallelism > 0 {
		parallelism = opts.Parallelism
	}

	reporter := a.reporter()
	res, runErr := a.scheduler.Run(ctx, descs, sel, scheduler.Options{
		Parallelism: parallelism,
		DryRun:      opts.DryRun,
		BuildDir:    a.settings.BuildDir,
		Reporter:    reporter,
	})
	if err := reporter.Close(); err != nil {
		a.logger.Warn("failed to flush output: " + err.Error())
	}
	return res, runErr
}

func known(descs []domain.TargetDescriptor) bool {
	for _, d := range descs {
		if d.Kind != domain.KindUnknown {
			return true
		}
	}
	return false
}

func (a *App) reporter() ports.Reporter {
	var rep ports.Reporter
	switch detector.ResolveMode(a.env, a.settings.Output) {
	case domain.OutputProgrock:
		rep = hoistprogrock.New(a.stderr)
	default:
		rep = linear.NewReporter(a.stdout, a.stderr)
	}
	if a.settings.JSONLogs {
		return loggedOutput{Reporter: rep}
	}
	return rep
}

// loggedOutput hands child output to the runner's logger instead of the reporter.
type loggedOutput struct {
	ports.Reporter
}

func (loggedOutput) Output(string) (io.Writer, io.Writer) {
	return nil, nil
}

// CacheStats reports the descriptor cache usage.
func (a *App) CacheStats() (domain.CacheStats, error) {
	return a.cache.Stats()
}

// ClearCache removes every cached descriptor.
func (a *App) ClearCache() error {
	if err := a.cache.Clear(); err != nil {
		return err
	}
	a.logger.Info("cache cleared")
	return nil
}

// InvalidateCache removes the cached descriptors of targets. Targets need not exist anymore.
func (a *App) InvalidateCache(targets []string) error {
	if len(targets) == 0 {
		return domain.ErrNoTargetsSpecified
	}
	for _, t := range targets {
		dir, err := filepath.Abs(t)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve target"), "target", t)
		}
		if err := a.cache.Invalidate(dir); err != nil {
			return err
		}
		a.logger.Info("invalidated " + dir)
	}
	return nil
}

// MaxAge returns the effective cache validity window.
func (a *App) MaxAge() time.Duration {
	return a.settings.MaxAge
}
