package cache

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// maxNameLen keeps encoded names, plus extension, under common filesystem limits.
const maxNameLen = 200

const upperHex = "0123456789ABCDEF"

// EncodeKey maps a cache key to a filesystem-safe file name.
//
// Lowercase letters, digits, '.', '_' and '-' are kept; every other byte, uppercase letters
// included, becomes %XX. The mapping is injective even on case-insensitive filesystems.
// Names longer than maxNameLen are truncated and suffixed with '~' and the xxhash of the
// full key; '~' never survives escaping, so hashed names cannot collide with plain ones.
func EncodeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if isSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0F])
	}

	name := b.String()
	if len(name) <= maxNameLen {
		return name
	}
	suffix := fmt.Sprintf("~%016x", xxhash.Sum64String(key))
	return name[:maxNameLen-len(suffix)] + suffix
}

func isSafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '.', c == '_', c == '-':
		return true
	default:
		return false
	}
}
