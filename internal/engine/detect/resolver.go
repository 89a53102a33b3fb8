package detect

import (
	"os"
	"path/filepath"

	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver turns target paths into descriptors, consulting the descriptor cache first.
type Resolver struct {
	cache ports.DescriptorCache
	log   ports.Logger
}

// NewResolver creates a Resolver backed by cache.
func NewResolver(cache ports.DescriptorCache, log ports.Logger) *Resolver {
	return &Resolver{cache: cache, log: log}
}

// Resolve describes the directory at target. With refresh set the cached record is ignored
// but still overwritten.
func (r *Resolver) Resolve(target string, refresh bool) (domain.TargetDescriptor, error) {
	dir, err := Abs(target)
	if err != nil {
		return domain.TargetDescriptor{}, err
	}

	if !refresh {
		if rec, ok := r.cache.Get(dir); ok {
			return domain.DescriptorFromRecord(dir, rec), nil
		}
	}

	desc := Describe(os.DirFS(dir), dir)
	if err := r.cache.Set(dir, desc.Record()); err != nil {
		r.log.Warn("failed to cache detection result for " + dir + ": " + err.Error())
	}
	return desc, nil
}

// ResolveAll resolves every target in order, stopping at the first missing one.
func (r *Resolver) ResolveAll(targets []string, refresh bool) ([]domain.TargetDescriptor, error) {
	if len(targets) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}
	descs := make([]domain.TargetDescriptor, 0, len(targets))
	for _, t := range targets {
		desc, err := r.Resolve(t, refresh)
		if err != nil {
			return nil, err
		}
		descs = append(descs, desc)
	}
	return descs, nil
}

// Abs returns the cleaned absolute path of target, which must be an existing directory.
func Abs(target string) (string, error) {
	dir, err := filepath.Abs(target)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrTargetNotFound, err.Error()), "target", target)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrTargetNotFound, err.Error()), "target", target)
	}
	if !info.IsDir() {
		return "", zerr.With(zerr.Wrap(domain.ErrTargetNotFound, "not a directory"), "target", target)
	}
	return dir, nil
}
