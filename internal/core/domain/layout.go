package domain

import (
	"os"
	"path/filepath"
)

const (
	// HoistDirName is the name of the per-user hoist directory.
	HoistDirName = ".hoist"

	// CacheDirName is the name of the detection cache directory.
	CacheDirName = "cache"

	// ConfigFileName is the name of the optional user configuration file.
	ConfigFileName = "config.yaml"

	// CacheFileExt is the extension of on-disk cache records.
	CacheFileExt = ".json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecPerm is the permission given to installed binaries (rwxr-xr-x).
	ExecPerm = 0o755
)

// DefaultHoistPath returns ~/.hoist, or .hoist when the home directory is unknown.
func DefaultHoistPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return HoistDirName
	}
	return filepath.Join(home, HoistDirName)
}

// DefaultCachePath returns the default root of the on-disk cache tier.
func DefaultCachePath() string {
	return filepath.Join(DefaultHoistPath(), CacheDirName)
}

// DefaultConfigPath returns the default location of the user configuration file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultHoistPath(), ConfigFileName)
}

// DefaultBuildDir returns where two-phase builds place their artifacts.
func DefaultBuildDir() string {
	return os.TempDir()
}

// DefaultInstallDir returns where two-phase builds install their binaries:
// $GOBIN, then $GOPATH/bin, then ~/go/bin.
func DefaultInstallDir() string {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return gobin
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		return filepath.Join(filepath.SplitList(gopath)[0], "bin")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(HoistDirName, "bin")
	}
	return filepath.Join(home, "go", "bin")
}
