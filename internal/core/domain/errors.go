package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidKind is returned when a kind tag cannot be parsed.
	ErrInvalidKind = zerr.New("invalid kind")

	// ErrContractViolation is the parent of every selection error detected before execution.
	ErrContractViolation = zerr.New("selection violates the action catalog")

	// ErrUnknownAction is returned when a selection names a flag outside the offered catalog.
	ErrUnknownAction = zerr.Wrap(ErrContractViolation, "unknown action")

	// ErrMissingValue is returned when a value-required action is selected without a value.
	ErrMissingValue = zerr.Wrap(ErrContractViolation, "missing value for action")

	// ErrDuplicateAction is returned when the same action is selected twice.
	ErrDuplicateAction = zerr.Wrap(ErrContractViolation, "duplicate action")

	// ErrNoTargetsSpecified is returned when a command is invoked without target paths.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrTargetNotFound is returned when a target path does not exist or is not a directory.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrCacheRootUnavailable is returned when the cache root directory cannot be created.
	ErrCacheRootUnavailable = zerr.New("failed to create cache root")

	// ErrCacheWriteFailed is returned when a cache record cannot be persisted.
	ErrCacheWriteFailed = zerr.New("failed to write cache record")

	// ErrCacheMarshalFailed is returned when a cache record cannot be encoded.
	ErrCacheMarshalFailed = zerr.New("failed to marshal cache record")

	// ErrCacheRemoveFailed is returned when a cache file cannot be deleted.
	ErrCacheRemoveFailed = zerr.New("failed to remove cache record")

	// ErrCommandFailed is returned when a child process exits unsuccessfully or cannot start.
	ErrCommandFailed = zerr.New("command failed")

	// ErrBuildPhaseFailed is returned when the build phase of a two-phase target fails.
	ErrBuildPhaseFailed = zerr.New("build phase failed")

	// ErrInstallPhaseFailed is returned when the build succeeded but installing the artifact failed.
	ErrInstallPhaseFailed = zerr.New("built but install failed")

	// ErrBatchFailed is returned when at least one target in a batch failed.
	ErrBatchFailed = zerr.New("one or more targets failed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file or an override cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config")
)
