package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/hoist/internal/core/domain"
)

func TestCacheRecord_Valid(t *testing.T) {
	stored := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := domain.CacheRecord{Kind: domain.KindGo, LastUpdated: stored.Unix()}

	tests := []struct {
		name   string
		now    time.Time
		maxAge time.Duration
		want   bool
	}{
		{"fresh", stored, time.Hour, true},
		{"just before expiry", stored.Add(time.Hour - time.Millisecond), time.Hour, true},
		{"at expiry", stored.Add(time.Hour), time.Hour, false},
		{"fractional max age keeps its fraction", stored.Add(1200 * time.Millisecond), 1500 * time.Millisecond, true},
		{"fractional max age elapsed", stored.Add(1600 * time.Millisecond), 1500 * time.Millisecond, false},
		{"timestamp in the future", stored.Add(-time.Minute), time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rec.Valid(tt.now, tt.maxAge))
		})
	}
}
