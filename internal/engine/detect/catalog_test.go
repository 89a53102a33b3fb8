package detect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/engine/detect"
)

func TestCatalog(t *testing.T) {
	tests := []struct {
		kind     domain.Kind
		flags    []string
		required []string
	}{
		{kind: domain.KindUv, flags: []string{"run", "sync", "add", "remove"}, required: []string{"add", "remove"}},
		{kind: domain.KindVenv, flags: []string{"run", "install", "uninstall"}, required: []string{"install", "uninstall"}},
		{kind: domain.KindPython, flags: []string{"run"}},
		{kind: domain.KindGo, flags: []string{"run", "build", "test", "tidy", "get"}, required: []string{"get"}},
		{kind: domain.KindRust, flags: []string{"run", "build", "test", "check", "clippy", "install"}},
		{kind: domain.KindJavaScript, flags: []string{"run", "install", "add", "test", "build"}, required: []string{"add"}},
		{kind: domain.KindTypeScript, flags: []string{"run", "install", "add", "test", "build"}, required: []string{"add"}},
		{kind: domain.KindUnknown, flags: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c := detect.Catalog(domain.TargetDescriptor{Kind: tt.kind, EntryPoint: "main.py", PackageManager: "yarn"})
			assert.Equal(t, tt.flags, c.Flags())

			var required []string
			for _, a := range c {
				if a.ValueRequired {
					required = append(required, a.Flag)
				}
			}
			assert.Equal(t, tt.required, required)
		})
	}
}

func TestCatalog_Descriptions(t *testing.T) {
	js := detect.Catalog(domain.TargetDescriptor{Kind: domain.KindJavaScript, PackageManager: "pnpm"})
	run, ok := js.Lookup("run")
	assert.True(t, ok)
	assert.Equal(t, "Start the app with pnpm", run.Description)

	uv := detect.Catalog(domain.TargetDescriptor{Kind: domain.KindUv, EntryPoint: "main.py"})
	run, ok = uv.Lookup("run")
	assert.True(t, ok)
	assert.Equal(t, "Run the app (main.py)", run.Description)

	goCat := detect.Catalog(domain.TargetDescriptor{Kind: domain.KindGo, EntryPoint: "."})
	build, ok := goCat.Lookup("build")
	assert.True(t, ok)
	assert.Equal(t, "Build and install the binary", build.Description)
}

func TestCommonCatalog(t *testing.T) {
	goDesc := domain.TargetDescriptor{Kind: domain.KindGo, EntryPoint: "main.go"}
	rustDesc := domain.TargetDescriptor{Kind: domain.KindRust, EntryPoint: "."}
	jsDesc := domain.TargetDescriptor{Kind: domain.KindJavaScript, EntryPoint: ".", PackageManager: "npm"}
	unknown := domain.TargetDescriptor{Kind: domain.KindUnknown}

	assert.Equal(t, []string{"run", "build", "test"}, detect.CommonCatalog([]domain.TargetDescriptor{goDesc, rustDesc}).Flags())
	assert.Equal(t, []string{"run", "install", "test", "build"}, detect.CommonCatalog([]domain.TargetDescriptor{jsDesc, rustDesc}).Flags(),
		"order follows the first target")
	assert.Equal(t, []string{"run", "build", "test"}, detect.CommonCatalog([]domain.TargetDescriptor{unknown, goDesc, rustDesc}).Flags(),
		"unknown targets do not restrict")
	assert.Empty(t, detect.CommonCatalog([]domain.TargetDescriptor{unknown}))
	assert.Empty(t, detect.CommonCatalog(nil))
}
