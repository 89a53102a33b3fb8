// Package detector picks the reporter for the current environment.
package detector

import (
	"os"

	"go.trai.ch/hoist/internal/core/domain"
	"golang.org/x/term"
)

// Environment describes where hoist is running.
type Environment struct {
	TTY bool
	CI  bool
}

// DetectEnvironment inspects stdout and the CI variable.
func DetectEnvironment() Environment {
	ci := os.Getenv("CI")
	return Environment{
		TTY: term.IsTerminal(int(os.Stdout.Fd())), //nolint:gosec // file descriptors fit in int
		CI:  ci == "true" || ci == "1",
	}
}

// ResolveMode turns the configured output mode into a concrete one.
// Auto selects progrock on an interactive terminal outside CI and linear everywhere else.
func ResolveMode(env Environment, configured string) string {
	switch configured {
	case domain.OutputLinear, domain.OutputProgrock:
		return configured
	}
	if env.TTY && !env.CI {
		return domain.OutputProgrock
	}
	return domain.OutputLinear
}
