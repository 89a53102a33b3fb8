package cache

// Purge exposes the stale-file removal used by Get.
func (s *Store) Purge(key string, stale []byte) {
	s.purge(key, stale)
}
