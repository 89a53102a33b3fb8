package ports

import (
	"time"

	"go.trai.ch/hoist/internal/core/domain"
)

// DescriptorCache stores detection results keyed by target path.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type DescriptorCache interface {
	// Get returns a valid record for key. Expired or corrupt records are purged and reported absent.
	Get(key string) (domain.CacheRecord, bool)

	// Set stamps the record with the current time and writes it to every tier.
	Set(key string, rec domain.CacheRecord) error

	// Invalidate removes key from every tier. Missing keys are not an error.
	Invalidate(key string) error

	// Clear empties every tier.
	Clear() error

	// SetMaxAge changes the validity window applied by subsequent reads.
	SetMaxAge(d time.Duration)

	// Stats reports counts and sizes without modifying the cache.
	Stats() (domain.CacheStats, error)
}
