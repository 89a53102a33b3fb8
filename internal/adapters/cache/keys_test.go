package cache_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/hoist/internal/adapters/cache"
)

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "/srv/api", want: "%2Fsrv%2Fapi"},
		{key: "plain-name_1.0", want: "plain-name_1.0"},
		{key: "Upper", want: "%55pper"},
		{key: "a b", want: "a%20b"},
		{key: "C:\\work", want: "%43%3A%5Cwork"},
		{key: "%2F", want: "%252%46"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, cache.EncodeKey(tt.key))
		})
	}
}

func TestEncodeKey_Injective(t *testing.T) {
	keys := []string{
		"/a/b", "/a_b", "/a-b", "/a.b", "a/b", "/A/b", "/a/B",
		"/a%2Fb", "%2Fa%2Fb", "/a//b", "/a/b/", "a\\b", "a:b",
	}

	seen := make(map[string]string, len(keys))
	for _, k := range keys {
		name := cache.EncodeKey(k)
		if prev, ok := seen[strings.ToLower(name)]; ok {
			t.Fatalf("keys %q and %q both encode to %q (case-insensitively)", prev, k, name)
		}
		seen[strings.ToLower(name)] = k
	}
}

func TestEncodeKey_LongKeys(t *testing.T) {
	base := "/" + strings.Repeat("deep/", 80)
	a := cache.EncodeKey(base + "one")
	b := cache.EncodeKey(base + "two")

	assert.LessOrEqual(t, len(a), 200)
	assert.LessOrEqual(t, len(b), 200)
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "~")
	assert.Equal(t, a, cache.EncodeKey(base+"one"), "encoding is deterministic")

	short := cache.EncodeKey("/short")
	assert.NotContains(t, short, "~")
}
