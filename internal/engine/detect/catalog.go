package detect

import "go.trai.ch/hoist/internal/core/domain"

// Catalog returns the actions offered for a target. It is a pure function of the descriptor.
func Catalog(desc domain.TargetDescriptor) domain.Catalog {
	switch desc.Kind {
	case domain.KindUv:
		return domain.Catalog{
			{Flag: "run", Description: "Run the app (" + desc.EntryPoint + ")"},
			{Flag: "sync", Description: "Sync dependencies"},
			{Flag: "add", Description: "Add a dependency", ValueRequired: true},
			{Flag: "remove", Description: "Remove a dependency", ValueRequired: true},
		}
	case domain.KindVenv:
		return domain.Catalog{
			{Flag: "run", Description: "Run the app (" + desc.EntryPoint + ")"},
			{Flag: "install", Description: "Install a package", ValueRequired: true},
			{Flag: "uninstall", Description: "Uninstall a package", ValueRequired: true},
		}
	case domain.KindPython:
		return domain.Catalog{
			{Flag: "run", Description: "Run the app (" + desc.EntryPoint + ")"},
		}
	case domain.KindGo:
		return domain.Catalog{
			{Flag: "run", Description: "Run the app (" + desc.EntryPoint + ")"},
			{Flag: "build", Description: "Build and install the binary"},
			{Flag: "test", Description: "Run tests"},
			{Flag: "tidy", Description: "Tidy go.mod"},
			{Flag: "get", Description: "Add a dependency", ValueRequired: true},
		}
	case domain.KindRust:
		return domain.Catalog{
			{Flag: "run", Description: "Run the app"},
			{Flag: "build", Description: "Build in release mode"},
			{Flag: "test", Description: "Run tests"},
			{Flag: "check", Description: "Check for errors"},
			{Flag: "clippy", Description: "Run clippy lints"},
			{Flag: "install", Description: "Install the binary"},
		}
	case domain.KindJavaScript, domain.KindTypeScript:
		pm := desc.PackageManager
		if pm == "" {
			pm = DefaultPackageManager
		}
		return domain.Catalog{
			{Flag: "run", Description: "Start the app with " + pm},
			{Flag: "install", Description: "Install dependencies with " + pm},
			{Flag: "add", Description: "Add a package with " + pm, ValueRequired: true},
			{Flag: "test", Description: "Run tests"},
			{Flag: "build", Description: "Build the project"},
		}
	default:
		return domain.Catalog{}
	}
}

// CommonCatalog returns the actions offered by every known-kind target, in the order of the
// first such target. Unknown targets do not restrict the result.
func CommonCatalog(descs []domain.TargetDescriptor) domain.Catalog {
	var common domain.Catalog
	started := false
	for _, d := range descs {
		if d.Kind == domain.KindUnknown {
			continue
		}
		c := Catalog(d)
		if !started {
			common = c
			started = true
			continue
		}
		common = common.Intersect(c)
	}
	if common == nil {
		return domain.Catalog{}
	}
	return common
}
