package detect_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/engine/detect"
)

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		want domain.Kind
	}{
		{
			name: "uv via tool table",
			fsys: fstest.MapFS{"pyproject.toml": file("[project]\nname='x'\n[tool.uv]\ndev-dependencies=[]\n")},
			want: domain.KindUv,
		},
		{
			name: "uv via lock file",
			fsys: fstest.MapFS{"pyproject.toml": file("[project]\n"), "uv.lock": file("")},
			want: domain.KindUv,
		},
		{
			name: "uv lock without pyproject is not uv",
			fsys: fstest.MapFS{"uv.lock": file("")},
			want: domain.KindUnknown,
		},
		{
			name: "venv",
			fsys: fstest.MapFS{"bin/activate": file("")},
			want: domain.KindVenv,
		},
		{
			name: "uv beats venv",
			fsys: fstest.MapFS{"bin/activate": file(""), "pyproject.toml": file(""), "uv.lock": file("")},
			want: domain.KindUv,
		},
		{
			name: "venv beats go",
			fsys: fstest.MapFS{"bin/activate": file(""), "go.mod": file("module x\n")},
			want: domain.KindVenv,
		},
		{
			name: "go",
			fsys: fstest.MapFS{"go.mod": file("module example.com/foo\n")},
			want: domain.KindGo,
		},
		{
			name: "go beats rust",
			fsys: fstest.MapFS{"go.mod": file(""), "Cargo.toml": file("")},
			want: domain.KindGo,
		},
		{
			name: "rust",
			fsys: fstest.MapFS{"Cargo.toml": file("")},
			want: domain.KindRust,
		},
		{
			name: "rust beats javascript",
			fsys: fstest.MapFS{"Cargo.toml": file(""), "package.json": file("{}")},
			want: domain.KindRust,
		},
		{
			name: "javascript",
			fsys: fstest.MapFS{"package.json": file("{}")},
			want: domain.KindJavaScript,
		},
		{
			name: "typescript",
			fsys: fstest.MapFS{"package.json": file("{}"), "tsconfig.json": file("{}")},
			want: domain.KindTypeScript,
		},
		{
			name: "tsconfig alone is not typescript",
			fsys: fstest.MapFS{"tsconfig.json": file("{}")},
			want: domain.KindUnknown,
		},
		{
			name: "javascript beats plain pyproject",
			fsys: fstest.MapFS{"package.json": file("{}"), "pyproject.toml": file("")},
			want: domain.KindJavaScript,
		},
		{
			name: "plain pyproject",
			fsys: fstest.MapFS{"pyproject.toml": file("[project]\n")},
			want: domain.KindPython,
		},
		{
			name: "python script",
			fsys: fstest.MapFS{"main.py": file("print('hi')\n")},
			want: domain.KindPython,
		},
		{
			name: "empty",
			fsys: fstest.MapFS{},
			want: domain.KindUnknown,
		},
		{
			name: "unrelated files",
			fsys: fstest.MapFS{"README.md": file("# hi")},
			want: domain.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detect.Kind(tt.fsys))
			assert.Equal(t, tt.want, detect.Kind(tt.fsys), "detection is idempotent")
		})
	}
}

// unreadable reports every file as present but fails every read.
type unreadable struct{ fstest.MapFS }

func (u unreadable) Open(name string) (fs.File, error) {
	if _, err := fs.Stat(u.MapFS, name); err == nil && name != "." {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return u.MapFS.Open(name)
}

func (u unreadable) ReadFile(name string) ([]byte, error) {
	return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrPermission}
}

func (u unreadable) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(u.MapFS, name)
}

func TestKind_UnreadableMarkerIsAbsent(t *testing.T) {
	fsys := unreadable{fstest.MapFS{"pyproject.toml": file("[tool.uv]\n")}}

	assert.Equal(t, domain.KindPython, detect.Kind(fsys))
}

func TestEntryPoint(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		kind domain.Kind
		want string
	}{
		{name: "go main", fsys: fstest.MapFS{"main.go": file(""), "cmd/main.go": file("")}, kind: domain.KindGo, want: "main.go"},
		{name: "go cmd", fsys: fstest.MapFS{"cmd/main.go": file("")}, kind: domain.KindGo, want: "cmd/main.go"},
		{name: "go default", fsys: fstest.MapFS{}, kind: domain.KindGo, want: "."},
		{name: "rust", fsys: fstest.MapFS{"main.py": file("")}, kind: domain.KindRust, want: "."},
		{name: "javascript", fsys: fstest.MapFS{}, kind: domain.KindJavaScript, want: "."},
		{name: "typescript", fsys: fstest.MapFS{}, kind: domain.KindTypeScript, want: "."},
		{name: "uv app", fsys: fstest.MapFS{"app.py": file(""), "main.py": file("")}, kind: domain.KindUv, want: "app.py"},
		{name: "venv main", fsys: fstest.MapFS{"main.py": file(""), "__main__.py": file("")}, kind: domain.KindVenv, want: "main.py"},
		{name: "python dunder", fsys: fstest.MapFS{"__main__.py": file("")}, kind: domain.KindPython, want: "__main__.py"},
		{name: "python default", fsys: fstest.MapFS{}, kind: domain.KindPython, want: "app.py"},
		{name: "unknown", fsys: fstest.MapFS{"main.go": file("")}, kind: domain.KindUnknown, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detect.EntryPoint(tt.fsys, tt.kind))
		})
	}
}

func TestPackageManager(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{name: "yarn", fsys: fstest.MapFS{"yarn.lock": file(""), "package-lock.json": file("")}, want: "yarn"},
		{name: "pnpm", fsys: fstest.MapFS{"pnpm-lock.yaml": file(""), "bun.lockb": file("")}, want: "pnpm"},
		{name: "bun", fsys: fstest.MapFS{"bun.lockb": file(""), "package-lock.json": file("")}, want: "bun"},
		{name: "npm", fsys: fstest.MapFS{"package-lock.json": file("")}, want: "npm"},
		{name: "default", fsys: fstest.MapFS{}, want: "npm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detect.PackageManager(tt.fsys))
		})
	}
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		dir  string
		want string
	}{
		{name: "simple", fsys: fstest.MapFS{"go.mod": file("module example.com/foo\n\ngo 1.22\n")}, dir: "/p1", want: "foo"},
		{name: "major version", fsys: fstest.MapFS{"go.mod": file("module github.com/acme/tool/v3\n")}, dir: "/p1", want: "tool"},
		{name: "gopkg.in", fsys: fstest.MapFS{"go.mod": file("module gopkg.in/yaml.v3\n")}, dir: "/p1", want: "yaml"},
		{name: "single element", fsys: fstest.MapFS{"go.mod": file("module hello\n")}, dir: "/p1", want: "hello"},
		{name: "quoted", fsys: fstest.MapFS{"go.mod": file("module \"example.com/quoted\"\n")}, dir: "/p1", want: "quoted"},
		{name: "missing module line", fsys: fstest.MapFS{"go.mod": file("go 1.22\n")}, dir: "/srv/api", want: "api"},
		{name: "missing go.mod", fsys: fstest.MapFS{}, dir: "/srv/worker", want: "worker"},
		{name: "root dir", fsys: fstest.MapFS{}, dir: "/", want: "app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detect.ModuleName(tt.fsys, tt.dir))
		})
	}
}

func TestDescribe(t *testing.T) {
	goDesc := detect.Describe(fstest.MapFS{
		"go.mod":  file("module example.com/foo\n"),
		"main.go": file("package main\n"),
	}, "/p1")
	assert.Equal(t, domain.TargetDescriptor{
		Path:       "/p1",
		Kind:       domain.KindGo,
		EntryPoint: "main.go",
		Module:     "foo",
	}, goDesc)

	tsDesc := detect.Describe(fstest.MapFS{
		"package.json":   file("{}"),
		"tsconfig.json":  file("{}"),
		"pnpm-lock.yaml": file(""),
	}, "/web")
	assert.Equal(t, domain.TargetDescriptor{
		Path:           "/web",
		Kind:           domain.KindTypeScript,
		EntryPoint:     ".",
		PackageManager: "pnpm",
	}, tsDesc)

	unknown := detect.Describe(fstest.MapFS{}, "/empty")
	assert.Equal(t, domain.KindUnknown, unknown.Kind)
	assert.Empty(t, unknown.EntryPoint)
}

func TestDescribe_Idempotent(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		kind  domain.Kind
	}{
		{"uv", map[string]string{"pyproject.toml": "[project]\n", "uv.lock": "", "main.py": ""}, domain.KindUv},
		{"venv", map[string]string{"bin/activate": "", "app.py": ""}, domain.KindVenv},
		{"go", map[string]string{"go.mod": "module example.com/foo\n", "main.go": "package main\n"}, domain.KindGo},
		{"rust", map[string]string{"Cargo.toml": "[package]\nname = \"x\"\n"}, domain.KindRust},
		{"javascript", map[string]string{"package.json": "{}", "yarn.lock": ""}, domain.KindJavaScript},
		{"typescript", map[string]string{"package.json": "{}", "tsconfig.json": "{}"}, domain.KindTypeScript},
		{"python", map[string]string{"main.py": ""}, domain.KindPython},
		{"unknown", map[string]string{"README.md": ""}, domain.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapFS := fstest.MapFS{}
			dir := t.TempDir()
			for name, content := range tt.files {
				mapFS[name] = file(content)
				path := filepath.Join(dir, name)
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
				require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
			}

			for _, fsys := range []fs.FS{mapFS, os.DirFS(dir)} {
				first := detect.Describe(fsys, dir)
				assert.Equal(t, tt.kind, first.Kind)
				for range 3 {
					again := detect.Describe(fsys, dir)
					assert.Equal(t, first, again)
					assert.Equal(t, first.Kind, detect.Kind(fsys))
					assert.Equal(t, first.EntryPoint, detect.EntryPoint(fsys, first.Kind))
				}
			}
		})
	}
}
