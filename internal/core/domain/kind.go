package domain

import (
	"go.trai.ch/zerr"
)

// Kind is the ecosystem classification of a target.
type Kind uint8

const (
	// KindUnknown is assigned when no recognized marker exists. Its catalog is empty.
	KindUnknown Kind = iota
	// KindUv is a Python project managed by uv.
	KindUv
	// KindVenv is a Python project living inside a virtual environment.
	KindVenv
	// KindPython is a plain Python project or script directory.
	KindPython
	// KindGo is a Go module.
	KindGo
	// KindRust is a Cargo package.
	KindRust
	// KindJavaScript is a package.json project without TypeScript configuration.
	KindJavaScript
	// KindTypeScript is a package.json project with a tsconfig.json.
	KindTypeScript
)

var kindNames = [...]string{
	KindUnknown:    "unknown",
	KindUv:         "uv",
	KindVenv:       "venv",
	KindPython:     "python",
	KindGo:         "go",
	KindRust:       "rust",
	KindJavaScript: "javascript",
	KindTypeScript: "typescript",
}

var kindTitles = [...]string{
	KindUnknown:    "unknown",
	KindUv:         "uv",
	KindVenv:       "venv",
	KindPython:     "generic Python",
	KindGo:         "Go",
	KindRust:       "Rust",
	KindJavaScript: "JavaScript",
	KindTypeScript: "TypeScript",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindUnknown, KindUv, KindVenv, KindPython, KindGo, KindRust, KindJavaScript, KindTypeScript}
}

// String returns the stable lowercase tag of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Title returns a human-readable name for the kind.
func (k Kind) Title() string {
	if int(k) < len(kindTitles) {
		return kindTitles[k]
	}
	return kindTitles[KindUnknown]
}

// IsJSFamily reports whether the kind is driven by a JavaScript package manager.
func (k Kind) IsJSFamily() bool {
	return k == KindJavaScript || k == KindTypeScript
}

// ParseKind converts a tag produced by Kind.String back into a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return KindUnknown, zerr.With(zerr.Wrap(ErrInvalidKind, "unrecognized kind tag"), "kind", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
