package domain

// TargetDescriptor is everything detection learned about a target.
type TargetDescriptor struct {
	// Path is the absolute path of the target directory.
	Path string
	// Kind is the detected ecosystem.
	Kind Kind
	// EntryPoint is the conventional entry file, or "." for packaged ecosystems.
	EntryPoint string
	// PackageManager is the JS package manager chosen from lock files. Empty for other kinds.
	PackageManager string
	// Module is the install name derived from the Go module path. Empty for other kinds.
	Module string
}

// MetadataModule is the CacheRecord metadata key holding TargetDescriptor.Module.
const MetadataModule = "module"

// Record converts the descriptor into a cache record. LastUpdated is left for the store to stamp.
func (d TargetDescriptor) Record() CacheRecord {
	rec := CacheRecord{
		Kind:           d.Kind,
		EntryPoint:     d.EntryPoint,
		PackageManager: d.PackageManager,
		Metadata:       map[string]string{},
	}
	if d.Module != "" {
		rec.Metadata[MetadataModule] = d.Module
	}
	return rec
}

// DescriptorFromRecord rebuilds a descriptor for path from a cached record.
func DescriptorFromRecord(path string, rec CacheRecord) TargetDescriptor {
	return TargetDescriptor{
		Path:           path,
		Kind:           rec.Kind,
		EntryPoint:     rec.EntryPoint,
		PackageManager: rec.PackageManager,
		Module:         rec.Metadata[MetadataModule],
	}
}
