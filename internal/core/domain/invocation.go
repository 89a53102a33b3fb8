package domain

import (
	"path/filepath"
	"strings"
)

// SkipReason explains why an invocation is empty.
type SkipReason string

const (
	// SkipNone marks a runnable invocation.
	SkipNone SkipReason = ""
	// SkipNoSelection means the caller selected no actions.
	SkipNoSelection SkipReason = "no-selection"
	// SkipNotApplicable means none of the selected actions map to a command for the target's kind.
	SkipNotApplicable SkipReason = "not-applicable"
)

// Invocation is a fully resolved external command.
//
// When InstallName is set the invocation is two-phase: Program/Args build an artifact at
// Artifact, which is then installed under InstallName.
type Invocation struct {
	Program     string
	Args        []string
	Dir         string
	InstallName string
	Artifact    string
	Skip        SkipReason
}

// Empty reports whether there is nothing to run.
func (i Invocation) Empty() bool {
	return i.Skip != SkipNone || i.Program == ""
}

// TwoPhase reports whether the invocation needs a build-then-install run.
func (i Invocation) TwoPhase() bool {
	return !i.Empty() && i.InstallName != ""
}

// CommandLine renders program and arguments for display.
func (i Invocation) CommandLine() string {
	if i.Empty() {
		return ""
	}
	parts := append([]string{i.Program}, i.Args...)
	line := strings.Join(parts, " ")
	if i.TwoPhase() {
		line += " && install " + i.Artifact + " as " + i.InstallName
	}
	return line
}

// ArtifactPath returns where a two-phase build places its output.
func ArtifactPath(buildDir, name string) string {
	return filepath.Join(buildDir, name)
}
