// Package detect classifies target directories and derives their action catalogs.
package detect

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/hoist/internal/core/domain"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// Marker files consulted during detection.
const (
	PyProject   = "pyproject.toml"
	UvLock      = "uv.lock"
	VenvScript  = "bin/activate"
	GoMod       = "go.mod"
	CargoToml   = "Cargo.toml"
	PackageJSON = "package.json"
	TSConfig    = "tsconfig.json"
)

const uvTable = "[tool.uv]"

// fallbackName is the install name used when neither go.mod nor the directory name yields one.
const fallbackName = "app"

var pythonScripts = []string{"app.py", "main.py", "__main__.py"}

var goEntries = []string{"main.go", "cmd/main.go"}

// rule is one detection predicate. Rules are evaluated in order and the first match wins.
type rule struct {
	kind  domain.Kind
	match func(fsys fs.FS) bool
}

var rules = []rule{
	{kind: domain.KindUv, match: func(fsys fs.FS) bool {
		return exists(fsys, PyProject) && (contains(fsys, PyProject, uvTable) || exists(fsys, UvLock))
	}},
	{kind: domain.KindVenv, match: func(fsys fs.FS) bool { return exists(fsys, VenvScript) }},
	{kind: domain.KindGo, match: func(fsys fs.FS) bool { return exists(fsys, GoMod) }},
	{kind: domain.KindRust, match: func(fsys fs.FS) bool { return exists(fsys, CargoToml) }},
	{kind: domain.KindTypeScript, match: func(fsys fs.FS) bool {
		return exists(fsys, PackageJSON) && exists(fsys, TSConfig)
	}},
	{kind: domain.KindJavaScript, match: func(fsys fs.FS) bool { return exists(fsys, PackageJSON) }},
	{kind: domain.KindPython, match: func(fsys fs.FS) bool { return exists(fsys, PyProject) }},
	{kind: domain.KindPython, match: func(fsys fs.FS) bool { return firstExisting(fsys, pythonScripts) != "" }},
}

// Kind classifies the directory rooted at fsys. It never fails: unreadable markers count as absent.
func Kind(fsys fs.FS) domain.Kind {
	for _, r := range rules {
		if r.match(fsys) {
			return r.kind
		}
	}
	return domain.KindUnknown
}

// EntryPoint returns the conventional entry of a target of the given kind.
func EntryPoint(fsys fs.FS, kind domain.Kind) string {
	switch kind {
	case domain.KindGo:
		if entry := firstExisting(fsys, goEntries); entry != "" {
			return entry
		}
		return "."
	case domain.KindRust, domain.KindJavaScript, domain.KindTypeScript:
		return "."
	case domain.KindUv, domain.KindVenv, domain.KindPython:
		if entry := firstExisting(fsys, pythonScripts); entry != "" {
			return entry
		}
		return pythonScripts[0]
	default:
		return ""
	}
}

var lockFiles = []struct {
	file    string
	manager string
}{
	{file: "yarn.lock", manager: "yarn"},
	{file: "pnpm-lock.yaml", manager: "pnpm"},
	{file: "bun.lockb", manager: "bun"},
	{file: "package-lock.json", manager: "npm"},
}

// DefaultPackageManager is used when no lock file is present.
const DefaultPackageManager = "npm"

// PackageManager picks the JS package manager from the first lock file found.
func PackageManager(fsys fs.FS) string {
	for _, lf := range lockFiles {
		if exists(fsys, lf.file) {
			return lf.manager
		}
	}
	return DefaultPackageManager
}

// ModuleName returns the binary name for a Go target: the last element of the module path
// without its major version suffix, or the base name of dir.
func ModuleName(fsys fs.FS, dir string) string {
	data, err := fs.ReadFile(fsys, GoMod)
	if err == nil {
		if name := installName(modfile.ModulePath(data)); name != "" {
			return name
		}
	}

	return FallbackName(dir)
}

// FallbackName derives an install name from the target directory.
func FallbackName(dir string) string {
	base := filepath.Base(dir)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return fallbackName
	}
	return base
}

func installName(modPath string) string {
	if modPath == "" {
		return ""
	}
	if prefix, _, ok := module.SplitPathVersion(modPath); ok && prefix != "" {
		modPath = prefix
	}
	name := path.Base(modPath)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// Describe runs every detection step for the directory at dir.
func Describe(fsys fs.FS, dir string) domain.TargetDescriptor {
	kind := Kind(fsys)
	desc := domain.TargetDescriptor{
		Path:       dir,
		Kind:       kind,
		EntryPoint: EntryPoint(fsys, kind),
	}
	switch {
	case kind.IsJSFamily():
		desc.PackageManager = PackageManager(fsys)
	case kind == domain.KindGo:
		desc.Module = ModuleName(fsys, dir)
	}
	return desc
}

func exists(fsys fs.FS, name string) bool {
	_, err := fs.Stat(fsys, name)
	return err == nil
}

func contains(fsys fs.FS, name, needle string) bool {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), needle)
}

func firstExisting(fsys fs.FS, names []string) string {
	for _, name := range names {
		if exists(fsys, name) {
			return name
		}
	}
	return ""
}
