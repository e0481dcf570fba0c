package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadCacheHit tests that an identical upload returns the cached tables
func TestLoadCacheHit(t *testing.T) {
	cache := NewLoadCache(4)
	content := []byte("a,b\n1,2\n")

	full1, _, err := cache.Load(content, "x.csv", SepAuto, 5)
	require.NoError(t, err)
	full2, _, err := cache.Load(content, "x.csv", SepAuto, 5)
	require.NoError(t, err)

	assert.Same(t, full1, full2)
	assert.Equal(t, 1, cache.Len())
}

// TestLoadCacheMissOnChangedContent tests that changed bytes under the same
// filename re-parse
func TestLoadCacheMissOnChangedContent(t *testing.T) {
	cache := NewLoadCache(4)

	full1, _, err := cache.Load([]byte("a,b\n1,2\n"), "x.csv", SepAuto, 5)
	require.NoError(t, err)
	full2, _, err := cache.Load([]byte("a,b\n9,9\n"), "x.csv", SepAuto, 5)
	require.NoError(t, err)

	assert.NotSame(t, full1, full2)
	assert.Equal(t, 2, cache.Len())
}

// TestLoadCacheMissOnSeparatorChange tests that the separator choice is part
// of the key
func TestLoadCacheMissOnSeparatorChange(t *testing.T) {
	cache := NewLoadCache(4)
	content := []byte("a,b\n1,2\n")

	_, _, err := cache.Load(content, "x.csv", SepAuto, 5)
	require.NoError(t, err)
	_, _, err = cache.Load(content, "x.csv", ",", 5)
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len())
}

// TestLoadCacheErrorNotCached tests that failed parses stay out of the cache
func TestLoadCacheErrorNotCached(t *testing.T) {
	cache := NewLoadCache(4)

	_, _, err := cache.Load([]byte("header,only\n"), "bad.csv", SepAuto, 5)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

// TestLoadCacheEviction tests the entry cap
func TestLoadCacheEviction(t *testing.T) {
	cache := NewLoadCache(2)

	for _, content := range []string{"a\n1\n", "b\n2\n", "c\n3\n"} {
		_, _, err := cache.Load([]byte(content), "x.csv", ",", 5)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cache.Len())
}
