// Package config resolves hoist settings from the config file, .env and the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Loader.
const (
	EnvConfig      = "HOIST_CONFIG"
	EnvCacheDir    = "HOIST_CACHE_DIR"
	EnvCacheMaxAge = "HOIST_CACHE_MAX_AGE"
	EnvParallelism = "HOIST_PARALLELISM"
	EnvBuildDir    = "HOIST_BUILD_DIR"
	EnvInstallDir  = "HOIST_INSTALL_DIR"
	EnvOutput      = "HOIST_OUTPUT"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader.
type Loader struct {
	log ports.Logger

	// Path overrides the config file location. Empty means $HOIST_CONFIG or ~/.hoist/config.yaml.
	Path string

	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// NewLoader creates a Loader reporting recoverable problems to log.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{log: log, LookupEnv: os.LookupEnv}
}

// File is the schema of config.yaml.
type File struct {
	CacheDir    string `yaml:"cache_dir"`
	CacheMaxAge string `yaml:"cache_max_age"`
	Parallelism int    `yaml:"parallelism"`
	BuildDir    string `yaml:"build_dir"`
	InstallDir  string `yaml:"install_dir"`
	Output      string `yaml:"output"`
	JSONLogs    bool   `yaml:"json_logs"`
}

// Load returns the defaults overlaid by the config file, cwd/.env and the environment.
func (l *Loader) Load(cwd string) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	file, err := l.readFile(l.configPath())
	if err != nil {
		return domain.Settings{}, err
	}
	if file != nil {
		if err := applyFile(&settings, file); err != nil {
			return domain.Settings{}, err
		}
	}

	dotenv, err := godotenv.Read(filepath.Join(cwd, DotEnvFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		if l.log != nil {
			l.log.Warn("ignoring unreadable " + DotEnvFile + ": " + err.Error())
		}
		dotenv = nil
	}

	lookup := l.lookup(dotenv)
	if err := applyEnv(&settings, lookup); err != nil {
		return domain.Settings{}, err
	}

	settings = settings.WithDefaults()
	if err := ValidateOutput(settings.Output); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (l *Loader) configPath() string {
	if l.Path != "" {
		return l.Path
	}
	if p, ok := l.env(EnvConfig); ok && p != "" {
		return expandHome(p)
	}
	return domain.DefaultConfigPath()
}

func (l *Loader) env(key string) (string, bool) {
	if l.LookupEnv == nil {
		return os.LookupEnv(key)
	}
	return l.LookupEnv(key)
}

// lookup gives the process environment precedence over .env values.
func (l *Loader) lookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := l.env(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func (l *Loader) readFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return &file, nil
}

func applyFile(s *domain.Settings, f *File) error {
	if f.CacheDir != "" {
		s.CacheDir = expandHome(f.CacheDir)
	}
	if f.CacheMaxAge != "" {
		d, err := parseDuration(f.CacheMaxAge)
		if err != nil {
			return zerr.With(err, "field", "cache_max_age")
		}
		s.MaxAge = d
	}
	if f.Parallelism > 0 {
		s.Parallelism = f.Parallelism
	}
	if f.BuildDir != "" {
		s.BuildDir = expandHome(f.BuildDir)
	}
	if f.InstallDir != "" {
		s.InstallDir = expandHome(f.InstallDir)
	}
	if f.Output != "" {
		s.Output = f.Output
	}
	s.JSONLogs = s.JSONLogs || f.JSONLogs
	return nil
}

func applyEnv(s *domain.Settings, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCacheDir); ok && v != "" {
		s.CacheDir = expandHome(v)
	}
	if v, ok := lookup(EnvCacheMaxAge); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return zerr.With(err, "env", EnvCacheMaxAge)
		}
		s.MaxAge = d
	}
	if v, ok := lookup(EnvParallelism); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return zerr.With(zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "parallelism must be a positive integer"),
				"env", EnvParallelism), "value", v)
		}
		s.Parallelism = n
	}
	if v, ok := lookup(EnvBuildDir); ok && v != "" {
		s.BuildDir = expandHome(v)
	}
	if v, ok := lookup(EnvInstallDir); ok && v != "" {
		s.InstallDir = expandHome(v)
	}
	if v, ok := lookup(EnvOutput); ok && v != "" {
		s.Output = v
	}
	return nil
}

// ParseDuration parses a max age. Bare integers are seconds. Records are timestamped to the
// second, so ages below one second are rejected.
func ParseDuration(v string) (time.Duration, error) {
	return parseDuration(v)
}

func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < time.Second {
		return 0, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "invalid duration"), "value", v)
	}
	return d, nil
}

// ValidateOutput rejects unknown output modes.
func ValidateOutput(mode string) error {
	switch mode {
	case domain.OutputAuto, domain.OutputLinear, domain.OutputProgrock:
		return nil
	default:
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "unknown output mode"), "output", mode)
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
