package app_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hoist/internal/adapters/cache"
	"go.trai.ch/hoist/internal/adapters/detector"
	"go.trai.ch/hoist/internal/adapters/logger"
	"go.trai.ch/hoist/internal/adapters/telemetry"
	"go.trai.ch/hoist/internal/app"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports/mocks"
	"go.trai.ch/hoist/internal/engine/detect"
	"go.trai.ch/hoist/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app       *app.App
	store     *cache.Store
	runner    *mocks.MockRunner
	installer *mocks.MockInstaller
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	logs      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	store, err := cache.NewStore(t.TempDir())
	require.NoError(t, err)

	var logs bytes.Buffer
	log := logger.New()
	log.SetOutput(&logs)

	runner := mocks.NewMockRunner(ctrl)
	installer := mocks.NewMockInstaller(ctrl)
	sched := scheduler.NewScheduler(runner, installer, telemetry.NewNoOpTracer())

	settings := domain.Settings{
		CacheDir:    store.Root(),
		Parallelism: 2,
		BuildDir:    t.TempDir(),
		InstallDir:  t.TempDir(),
		Output:      domain.OutputLinear,
	}

	var stdout, stderr bytes.Buffer
	a := app.New(settings, detect.NewResolver(store, log), store, sched, log).
		WithOutput(&stdout, &stderr).
		WithEnvironment(detector.Environment{})

	return &fixture{
		app:       a,
		store:     store,
		runner:    runner,
		installer: installer,
		stdout:    &stdout,
		stderr:    &stderr,
		logs:      &logs,
	}
}

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func goProject(t *testing.T) string {
	return project(t, map[string]string{"go.mod": "module example.com/foo\n\ngo 1.25\n", "main.go": "package main\n"})
}

func TestApp_Actions_Single(t *testing.T) {
	f := newFixture(t)

	catalog, descs, err := f.app.Actions(context.Background(), []string{goProject(t)})
	require.NoError(t, err)

	require.Len(t, descs, 1)
	assert.Equal(t, domain.KindGo, descs[0].Kind)
	assert.Equal(t, []string{"run", "build", "test", "tidy", "get"}, catalog.Flags())
}

func TestApp_Actions_CommonCatalog(t *testing.T) {
	f := newFixture(t)
	rust := project(t, map[string]string{"Cargo.toml": "[package]\nname = \"x\"\n"})
	empty := t.TempDir()

	catalog, _, err := f.app.Actions(context.Background(), []string{goProject(t), rust, empty})
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "build", "test"}, catalog.Flags())
}

func TestApp_Actions_MissingTarget(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.app.Actions(context.Background(), []string{filepath.Join(t.TempDir(), "absent")})
	assert.ErrorIs(t, err, domain.ErrTargetNotFound)

	_, _, err = f.app.Actions(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoTargetsSpecified)
}

func TestApp_Run_ContractViolationStopsBeforeExecution(t *testing.T) {
	f := newFixture(t)
	rust := project(t, map[string]string{"Cargo.toml": ""})

	tests := []struct {
		name    string
		targets []string
		actions []string
		want    error
	}{
		{"unknown flag", []string{goProject(t)}, []string{"deploy"}, domain.ErrUnknownAction},
		{"missing value", []string{goProject(t)}, []string{"get"}, domain.ErrMissingValue},
		{"duplicate", []string{goProject(t)}, []string{"test", "test"}, domain.ErrDuplicateAction},
		{"outside common catalog", []string{goProject(t), rust}, []string{"tidy"}, domain.ErrUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.app.Run(context.Background(), tt.targets, app.RunOptions{Actions: tt.actions})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrContractViolation)
		})
	}
}

func TestApp_Run_DryRun(t *testing.T) {
	f := newFixture(t)
	dir := project(t, map[string]string{"main.py": "print('hi')\n"})

	res, err := f.app.Run(context.Background(), []string{dir}, app.RunOptions{Actions: []string{"run"}, DryRun: true})
	require.NoError(t, err)

	require.Len(t, res.Results, 1)
	assert.True(t, res.Results[0].Success)
	assert.Contains(t, f.stderr.String(), "$ python3 main.py")
}

func TestApp_Run_Executes(t *testing.T) {
	f := newFixture(t)
	dir := goProject(t)

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.Invocation, stdout, _ io.Writer) error {
			assert.Equal(t, dir, inv.Dir)
			assert.Equal(t, []string{"test", "./..."}, inv.Args)
			_, _ = stdout.Write([]byte("ok\n"))
			return nil
		})

	res, err := f.app.Run(context.Background(), []string{dir}, app.RunOptions{Actions: []string{"test"}})
	require.NoError(t, err)
	assert.True(t, res.Succeeded())
	assert.Contains(t, f.stdout.String(), "ok\n")
}

func TestApp_Run_BatchFailure(t *testing.T) {
	f := newFixture(t)

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrCommandFailed).Times(2)

	res, err := f.app.Run(context.Background(), []string{goProject(t), goProject(t)},
		app.RunOptions{Actions: []string{"test"}, Parallelism: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBatchFailed)
	assert.Len(t, res.Failed(), 2)
}

func TestApp_Run_UnknownTargetsAcceptAnySelection(t *testing.T) {
	f := newFixture(t)

	res, err := f.app.Run(context.Background(), []string{t.TempDir()}, app.RunOptions{Actions: []string{"anything"}})
	require.NoError(t, err)
	assert.Equal(t, domain.SkipNotApplicable, res.Results[0].Skipped)
}

func TestApp_Run_JSONLogsRouteOutputToLogger(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.Apply(app.Overrides{JSONLogs: true}))

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.Invocation, stdout, stderr io.Writer) error {
			assert.Nil(t, stdout)
			assert.Nil(t, stderr)
			return nil
		})

	_, err := f.app.Run(context.Background(), []string{goProject(t)}, app.RunOptions{Actions: []string{"test"}})
	require.NoError(t, err)
}

func TestApp_Run_UsesCache(t *testing.T) {
	f := newFixture(t)
	dir := goProject(t)

	_, _, err := f.app.Actions(context.Background(), []string{dir})
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "go.mod")))

	catalog, descs, err := f.app.Actions(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, domain.KindGo, descs[0].Kind, "cached descriptor is reused")
	assert.NotEmpty(t, catalog)

	res, err := f.app.Run(context.Background(), []string{dir}, app.RunOptions{Actions: []string{"run"}, Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, domain.SkipNotApplicable, res.Results[0].Skipped, "refresh re-detects the target")
}

func TestApp_Apply(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.app.Apply(app.Overrides{MaxAge: "90s", Parallelism: 7, Output: domain.OutputProgrock}))
	assert.Equal(t, 90*time.Second, f.app.MaxAge())
	assert.Equal(t, 90*time.Second, f.store.MaxAge())
	assert.Equal(t, 7, f.app.Settings().Parallelism)
	assert.Equal(t, domain.OutputProgrock, f.app.Settings().Output)

	assert.ErrorIs(t, f.app.Apply(app.Overrides{MaxAge: "soon"}), domain.ErrConfigParseFailed)
	assert.ErrorIs(t, f.app.Apply(app.Overrides{Output: "fancy"}), domain.ErrConfigParseFailed)
}

func TestApp_Cache(t *testing.T) {
	f := newFixture(t)
	a, b := goProject(t), goProject(t)

	_, _, err := f.app.Actions(context.Background(), []string{a, b})
	require.NoError(t, err)

	stats, err := f.app.CacheStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FileEntries)

	require.NoError(t, f.app.InvalidateCache([]string{a}))
	stats, err = f.app.CacheStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FileEntries)

	require.NoError(t, f.app.ClearCache())
	stats, err = f.app.CacheStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FileEntries)
	assert.Contains(t, f.logs.String(), "cache cleared")

	assert.ErrorIs(t, f.app.InvalidateCache(nil), domain.ErrNoTargetsSpecified)
}
