package domain

import (
	"runtime"
	"time"
)

// Output modes accepted by Settings.Output.
const (
	OutputAuto     = "auto"
	OutputLinear   = "linear"
	OutputProgrock = "progrock"
)

// Settings configures the core. Zero values are replaced by DefaultSettings.
type Settings struct {
	CacheDir    string
	MaxAge      time.Duration
	Parallelism int
	BuildDir    string
	InstallDir  string
	Output      string
	JSONLogs    bool
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		CacheDir:    DefaultCachePath(),
		MaxAge:      DefaultMaxAge,
		Parallelism: runtime.NumCPU(),
		BuildDir:    DefaultBuildDir(),
		InstallDir:  DefaultInstallDir(),
		Output:      OutputAuto,
	}
}

// WithDefaults fills unset fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if s.CacheDir == "" {
		s.CacheDir = def.CacheDir
	}
	if s.MaxAge <= 0 {
		s.MaxAge = def.MaxAge
	}
	if s.Parallelism <= 0 {
		s.Parallelism = def.Parallelism
	}
	if s.BuildDir == "" {
		s.BuildDir = def.BuildDir
	}
	if s.InstallDir == "" {
		s.InstallDir = def.InstallDir
	}
	if s.Output == "" {
		s.Output = def.Output
	}
	return s
}
