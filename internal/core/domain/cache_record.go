package domain

import (
	"fmt"
	"maps"
	"time"
)

// DefaultMaxAge is how long a cache record stays valid unless configured otherwise.
const DefaultMaxAge = time.Hour

// CacheRecord is the persisted result of detecting one target.
type CacheRecord struct {
	Kind           Kind              `json:"kind"`
	EntryPoint     string            `json:"entry_point"`
	PackageManager string            `json:"package_manager,omitempty"`
	LastUpdated    int64             `json:"last_updated"`
	Metadata       map[string]string `json:"metadata"`
}

// Valid reports whether the record is younger than maxAge at now.
func (r CacheRecord) Valid(now time.Time, maxAge time.Duration) bool {
	age := max(now.Sub(time.Unix(r.LastUpdated, 0)), 0)
	return age < maxAge
}

// Clone returns a deep copy of the record.
func (r CacheRecord) Clone() CacheRecord {
	out := r
	if r.Metadata != nil {
		out.Metadata = maps.Clone(r.Metadata)
	}
	return out
}

// CacheStats summarizes both cache tiers.
type CacheStats struct {
	MemoryEntries int
	FileEntries   int
	TotalBytes    int64
	MaxAge        time.Duration
}

func (s CacheStats) String() string {
	return fmt.Sprintf("Cache Stats: %d in memory, %d on disk, %d bytes total, %s max age",
		s.MemoryEntries, s.FileEntries, s.TotalBytes, s.MaxAge)
}
