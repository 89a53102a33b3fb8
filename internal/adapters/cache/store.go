// Package cache implements the two-tier detection cache.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/hoist/internal/core/domain"
	"go.trai.ch/hoist/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DescriptorCache = (*Store)(nil)

// DefaultMemoryCapacity bounds the number of records held in memory.
const DefaultMemoryCapacity = 1024

// keyStripes is the number of per-key file locks.
const keyStripes = 64

// Store implements ports.DescriptorCache with an LRU memory tier in front of
// one JSON file per key under root.
type Store struct {
	root     string
	maxAge   atomic.Int64
	clock    clockwork.Clock
	capacity int

	// mu serializes writers to the memory tier so that check-then-evict and
	// check-then-promote sequences are not interleaved.
	mu     sync.RWMutex
	memory *lru.Cache[string, domain.CacheRecord]

	// files orders the rename of a new record against the purge of a stale one for the same key.
	files [keyStripes]sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithMaxAge overrides domain.DefaultMaxAge.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) {
		s.SetMaxAge(d)
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithMemoryCapacity bounds the memory tier.
func WithMemoryCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// NewStore creates the cache root if needed and returns a Store backed by it.
func NewStore(root string, opts ...Option) (*Store, error) {
	s := &Store{
		root:     filepath.Clean(root),
		clock:    clockwork.NewRealClock(),
		capacity: DefaultMemoryCapacity,
	}
	s.maxAge.Store(int64(domain.DefaultMaxAge))
	for _, opt := range opts {
		opt(s)
	}

	memory, err := lru.New[string, domain.CacheRecord](s.capacity)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create memory tier")
	}
	s.memory = memory

	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return nil, rootUnavailable(err, s.root)
	}
	return s, nil
}

// Root returns the on-disk tier directory.
func (s *Store) Root() string {
	return s.root
}

// MaxAge returns the validity window of records.
func (s *Store) MaxAge() time.Duration {
	return time.Duration(s.maxAge.Load())
}

// SetMaxAge changes the validity window. Non-positive durations are ignored.
func (s *Store) SetMaxAge(d time.Duration) {
	if d > 0 {
		s.maxAge.Store(int64(d))
	}
}

// Path returns the file that holds key on disk.
func (s *Store) Path(key string) string {
	return filepath.Join(s.root, EncodeKey(key)+domain.CacheFileExt)
}

// Get returns a valid record for key.
func (s *Store) Get(key string) (domain.CacheRecord, bool) {
	now := s.clock.Now()
	maxAge := s.MaxAge()

	s.mu.RLock()
	rec, ok := s.memory.Get(key)
	s.mu.RUnlock()

	if ok {
		if rec.Valid(now, maxAge) {
			return rec.Clone(), true
		}
		s.evictExpired(key, now, maxAge)
	}

	return s.load(key, now, maxAge)
}

// evictExpired drops key from memory unless a writer replaced it with a valid record meanwhile.
func (s *Store) evictExpired(key string, now time.Time, maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.memory.Peek(key); ok && !cur.Valid(now, maxAge) {
		s.memory.Remove(key)
	}
}

func (s *Store) load(key string, now time.Time, maxAge time.Duration) (domain.CacheRecord, bool) {
	path := s.Path(key)

	//nolint:gosec // Path is built from the cache root and an escaped key
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.purge(key, nil)
		}
		return domain.CacheRecord{}, false
	}

	var rec domain.CacheRecord
	if err := json.Unmarshal(data, &rec); err != nil || !rec.Valid(now, maxAge) {
		s.purge(key, data)
		return domain.CacheRecord{}, false
	}

	s.promote(key, rec)
	return rec.Clone(), true
}

func (s *Store) fileLock(key string) *sync.Mutex {
	return &s.files[xxhash.Sum64String(key)%keyStripes]
}

// purge deletes the file of key if it still holds stale. A nil stale marks an unreadable file.
func (s *Store) purge(key string, stale []byte) {
	l := s.fileLock(key)
	l.Lock()
	defer l.Unlock()

	path := s.Path(key)
	//nolint:gosec // Path is built from the cache root and an escaped key
	cur, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return
	case err == nil && (stale == nil || !bytes.Equal(cur, stale)):
		return
	}
	_ = os.Remove(path)
}

// promote stores rec in memory unless memory already holds a record at least as new.
func (s *Store) promote(key string, rec domain.CacheRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.memory.Peek(key); ok && cur.LastUpdated >= rec.LastUpdated {
		return
	}
	s.memory.Add(key, rec)
}

// Set stamps rec with the current time and writes it to memory and disk.
func (s *Store) Set(key string, rec domain.CacheRecord) error {
	rec = rec.Clone()
	rec.LastUpdated = s.clock.Now().Unix()
	if rec.Metadata == nil {
		rec.Metadata = map[string]string{}
	}

	s.mu.Lock()
	s.memory.Add(key, rec)
	s.mu.Unlock()

	return s.write(key, rec)
}

// write persists rec through a temporary file and a rename so readers never
// observe a partial record and concurrent writers of one key never interleave.
func (s *Store) write(key string, rec domain.CacheRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error()), "key", key)
	}

	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return rootUnavailable(err, s.root)
	}

	path := s.Path(key)
	tmp, err := os.CreateTemp(s.root, "."+EncodeKey(key)+"-*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}

	l := s.fileLock(key)
	l.Lock()
	err = os.Rename(tmpName, path)
	l.Unlock()
	if err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	return nil
}

// Invalidate removes key from both tiers.
func (s *Store) Invalidate(key string) error {
	s.mu.Lock()
	s.memory.Remove(key)
	s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheRemoveFailed.Error()), "key", key)
	}
	return nil
}

// Clear empties the memory tier and recreates the disk root empty.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memory.Purge()

	if err := os.RemoveAll(s.root); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheRemoveFailed.Error()), "path", s.root)
	}
	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return rootUnavailable(err, s.root)
	}
	return nil
}

// Stats counts memory entries and on-disk records.
func (s *Store) Stats() (domain.CacheStats, error) {
	s.mu.RLock()
	stats := domain.CacheStats{
		MemoryEntries: s.memory.Len(),
		MaxAge:        s.MaxAge(),
	}
	s.mu.RUnlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, nil
		}
		return stats, zerr.With(zerr.Wrap(err, "failed to list cache root"), "path", s.root)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), domain.CacheFileExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.FileEntries++
		stats.TotalBytes += info.Size()
	}
	return stats, nil
}

// rootUnavailable wraps ErrCacheRootUnavailable so that errors.Is matches it.
func rootUnavailable(cause error, root string) error {
	return zerr.With(zerr.Wrap(domain.ErrCacheRootUnavailable, cause.Error()), "path", root)
}
