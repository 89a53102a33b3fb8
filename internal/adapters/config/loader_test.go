package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hoist/internal/adapters/config"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/zerr"
)

// newLoader returns a Loader isolated from the host environment and home directory.
func newLoader(t *testing.T, env map[string]string) (*config.Loader, string) {
	t.Helper()
	dir := t.TempDir()
	l := config.NewLoader(nil)
	l.Path = filepath.Join(dir, "config.yaml")
	l.LookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return l, dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	l, dir := newLoader(t, nil)

	got, err := l.Load(dir)
	require.NoError(t, err)

	def := domain.DefaultSettings()
	assert.Equal(t, def.MaxAge, got.MaxAge)
	assert.Equal(t, def.Parallelism, got.Parallelism)
	assert.Equal(t, def.CacheDir, got.CacheDir)
	assert.Equal(t, domain.OutputAuto, got.Output)
	assert.False(t, got.JSONLogs)
}

func TestLoad_File(t *testing.T) {
	l, dir := newLoader(t, nil)
	writeFile(t, l.Path, `
cache_dir: /var/cache/hoist
cache_max_age: 30m
parallelism: 3
build_dir: /tmp/build
install_dir: /opt/bin
output: linear
json_logs: true
`)

	got, err := l.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/var/cache/hoist", got.CacheDir)
	assert.Equal(t, 30*time.Minute, got.MaxAge)
	assert.Equal(t, 3, got.Parallelism)
	assert.Equal(t, "/tmp/build", got.BuildDir)
	assert.Equal(t, "/opt/bin", got.InstallDir)
	assert.Equal(t, domain.OutputLinear, got.Output)
	assert.True(t, got.JSONLogs)
}

func TestLoad_Precedence(t *testing.T) {
	l, dir := newLoader(t, map[string]string{
		config.EnvParallelism: "8",
	})
	writeFile(t, l.Path, "parallelism: 2\ncache_max_age: 10m\noutput: progrock\n")
	writeFile(t, filepath.Join(dir, config.DotEnvFile),
		"HOIST_PARALLELISM=4\nHOIST_CACHE_MAX_AGE=90\n")

	got, err := l.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8, got.Parallelism, "environment beats .env and file")
	assert.Equal(t, 90*time.Second, got.MaxAge, ".env beats file")
	assert.Equal(t, domain.OutputProgrock, got.Output, "file beats defaults")
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "build_dir: /custom\n")

	l := config.NewLoader(nil)
	l.LookupEnv = func(key string) (string, bool) {
		if key == config.EnvConfig {
			return path, true
		}
		return "", false
	}

	got, err := l.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/custom", got.BuildDir)
}

func TestLoad_InvalidYAML(t *testing.T) {
	l, dir := newLoader(t, nil)
	writeFile(t, l.Path, "parallelism: [unterminated\n")

	_, err := l.Load(dir)
	require.Error(t, err)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, l.Path, zErr.Metadata()["path"])
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "duration", env: map[string]string{config.EnvCacheMaxAge: "soon"}},
		{name: "negative duration", env: map[string]string{config.EnvCacheMaxAge: "-5m"}},
		{name: "parallelism", env: map[string]string{config.EnvParallelism: "zero"}},
		{name: "zero parallelism", env: map[string]string{config.EnvParallelism: "0"}},
		{name: "output", env: map[string]string{config.EnvOutput: "fancy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, dir := newLoader(t, tt.env)
			_, err := l.Load(dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
		})
	}
}

func TestParseDuration(t *testing.T) {
	d, err := config.ParseDuration("120")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	d, err = config.ParseDuration("1h30m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = config.ParseDuration("0")
	require.Error(t, err)

	for _, v := range []string{"500ms", "999ms", "-5s"} {
		_, err = config.ParseDuration(v)
		require.ErrorIs(t, err, domain.ErrConfigParseFailed, v)
	}

	d, err = config.ParseDuration("1500ms")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)
}
