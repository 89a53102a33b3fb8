// Package synth turns a target descriptor and a selection into the command to run.
package synth

import (
	"strings"

	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/engine/detect"
)

// Synthesizer builds invocations. It performs no I/O.
type Synthesizer struct {
	// BuildDir receives the artifacts of two-phase Go builds.
	BuildDir string
}

// New creates a Synthesizer placing two-phase build artifacts in buildDir.
func New(buildDir string) *Synthesizer {
	return &Synthesizer{BuildDir: buildDir}
}

// Synthesize validates sel against the descriptor's catalog and returns the invocation for it.
// Selections are processed in order.
// Unknown targets accept any selection and yield a not-applicable empty invocation.
func (s *Synthesizer) Synthesize(desc domain.TargetDescriptor, sel domain.SelectionSet) (domain.Invocation, error) {
	if len(sel) == 0 {
		return domain.Invocation{Dir: desc.Path, Skip: domain.SkipNoSelection}, nil
	}
	if desc.Kind == domain.KindUnknown {
		return domain.Invocation{Dir: desc.Path, Skip: domain.SkipNotApplicable}, nil
	}
	if err := sel.Validate(detect.Catalog(desc)); err != nil {
		return domain.Invocation{}, err
	}

	var inv domain.Invocation
	switch desc.Kind {
	case domain.KindGo:
		inv = s.goInvocation(desc, sel)
	case domain.KindRust:
		inv = rustInvocation(sel)
	case domain.KindJavaScript, domain.KindTypeScript:
		inv = jsInvocation(desc, sel)
	case domain.KindUv:
		inv = uvInvocation(desc, sel)
	case domain.KindVenv:
		inv = venvInvocation(desc, sel)
	case domain.KindPython:
		inv = pythonInvocation(desc, sel)
	}

	inv.Dir = desc.Path
	if inv.Program == "" || len(inv.Args) == 0 {
		return domain.Invocation{Dir: desc.Path, Skip: domain.SkipNotApplicable}, nil
	}
	return inv, nil
}

func (s *Synthesizer) goInvocation(desc domain.TargetDescriptor, sel domain.SelectionSet) domain.Invocation {
	if sel.Has("build") {
		name := desc.Module
		if name == "" {
			name = detect.FallbackName(desc.Path)
		}
		artifact := domain.ArtifactPath(s.BuildDir, name)
		return domain.Invocation{
			Program:     "go",
			Args:        []string{"build", "-o", artifact, "."},
			InstallName: name,
			Artifact:    artifact,
		}
	}

	var args []string
	for _, x := range sel {
		switch x.Flag {
		case "run":
			args = append(args, "run", desc.EntryPoint)
		case "test":
			args = append(args, "test", "./...")
		case "tidy":
			args = append(args, "mod", "tidy")
		case "get":
			args = append(args, "get", x.Value)
		}
	}
	return domain.Invocation{Program: "go", Args: args}
}

func rustInvocation(sel domain.SelectionSet) domain.Invocation {
	var args []string
	for _, x := range sel {
		switch x.Flag {
		case "run", "test", "check", "clippy":
			args = append(args, x.Flag)
		case "build":
			args = append(args, "build", "--release")
		case "install":
			args = append(args, "install", "--path", ".")
		}
	}
	return domain.Invocation{Program: "cargo", Args: args}
}

func jsInvocation(desc domain.TargetDescriptor, sel domain.SelectionSet) domain.Invocation {
	pm := desc.PackageManager
	if pm == "" {
		pm = detect.DefaultPackageManager
	}

	var args []string
	for _, x := range sel {
		switch x.Flag {
		case "run":
			args = append(args, "run", "start")
		case "install", "test":
			args = append(args, x.Flag)
		case "add":
			if pm == "npm" {
				args = append(args, "install", x.Value)
			} else {
				args = append(args, "add", x.Value)
			}
		case "build":
			args = append(args, "run", "build")
		}
	}
	return domain.Invocation{Program: pm, Args: args}
}

func uvInvocation(desc domain.TargetDescriptor, sel domain.SelectionSet) domain.Invocation {
	if sel.Has("run") {
		return domain.Invocation{Program: "uv", Args: []string{"run", desc.EntryPoint}}
	}

	args := []string{"--project", desc.Path}
	for _, x := range sel {
		args = append(args, x.Flag)
		if x.HasValue && x.Value != "" {
			args = append(args, x.Value)
		}
	}
	return domain.Invocation{Program: "uv", Args: args}
}

func venvInvocation(desc domain.TargetDescriptor, sel domain.SelectionSet) domain.Invocation {
	steps := []string{"source bin/activate"}
	for _, x := range sel {
		switch x.Flag {
		case "run":
			steps = append(steps, "python "+Quote(desc.EntryPoint))
		case "install":
			steps = append(steps, "pip install "+Quote(x.Value))
		case "uninstall":
			steps = append(steps, "pip uninstall -y "+Quote(x.Value))
		}
	}
	if len(steps) == 1 {
		return domain.Invocation{}
	}
	return domain.Invocation{Program: "bash", Args: []string{"-c", strings.Join(steps, " && ")}}
}

func pythonInvocation(desc domain.TargetDescriptor, sel domain.SelectionSet) domain.Invocation {
	if !sel.Has("run") {
		return domain.Invocation{}
	}
	return domain.Invocation{Program: "python3", Args: []string{desc.EntryPoint}}
}

// Quote wraps v in single quotes for POSIX shells, escaping embedded single quotes.
func Quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}
