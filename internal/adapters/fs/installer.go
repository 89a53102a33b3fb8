// Package fs provides the file system adapter that installs built binaries.
package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Installer = (*Installer)(nil)

// Installer copies build artifacts into a bin directory.
type Installer struct {
	dir string
}

// NewInstaller creates an Installer targeting dir.
func NewInstaller(dir string) *Installer {
	return &Installer{dir: dir}
}

// Dir returns the install directory.
func (i *Installer) Dir() string {
	return i.dir
}

// Install copies artifact to <dir>/<name> with executable permissions and removes the artifact.
// The destination is replaced atomically so a running binary of the same name is never truncated.
func (i *Installer) Install(ctx context.Context, artifact, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) {
		return "", zerr.With(zerr.New("invalid install name"), "name", name)
	}

	if err := os.MkdirAll(i.dir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create install directory"), "path", i.dir)
	}

	dest := filepath.Join(i.dir, name)
	sum, err := copyFile(artifact, i.dir, name)
	if err != nil {
		return "", err
	}

	installed, err := ComputeFileHash(dest)
	if err != nil {
		return "", err
	}
	if installed != sum {
		return "", zerr.With(zerr.New("installed binary does not match artifact"), "path", dest)
	}

	_ = os.Remove(artifact)
	return dest, nil
}

// copyFile writes src into dir/name through a temporary file and returns the xxhash of the content.
func copyFile(src, dir, name string) (uint64, error) {
	in, err := os.Open(src) //nolint:gosec // Path is produced by the build phase
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open artifact"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	tmp, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to create temporary file"), "path", dir)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	hasher := xxhash.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), in); err != nil {
		_ = tmp.Close()
		cleanup()
		return 0, zerr.With(zerr.Wrap(err, "failed to copy artifact"), "path", src)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return 0, zerr.With(zerr.Wrap(err, "failed to close temporary file"), "path", tmpName)
	}
	if err := os.Chmod(tmpName, domain.ExecPerm); err != nil {
		cleanup()
		return 0, zerr.With(zerr.Wrap(err, "failed to mark binary executable"), "path", tmpName)
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return 0, zerr.With(zerr.Wrap(err, "failed to move binary into place"), "path", dest)
	}
	return hasher.Sum64(), nil
}

// ComputeFileHash computes the XXHash of a file's content.
func ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return hasher.Sum64(), nil
}
