package table

import (
	"crypto/sha256"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadResult bundles the full table with its preview copy.
type LoadResult struct {
	Full    *Table
	Preview *Table
}

// LoadCache memoizes Load results so re-selecting the same upload does not
// re-parse it. The key hashes the byte content, not just the filename: a
// changed file re-uploaded under the same name must miss. Purely advisory;
// eviction drops an arbitrary entry once the cap is reached.
type LoadCache struct {
	mu         sync.RWMutex
	entries    map[string]*LoadResult
	group      singleflight.Group
	maxEntries int
}

// NewLoadCache creates a cache holding at most maxEntries parsed tables.
func NewLoadCache(maxEntries int) *LoadCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &LoadCache{
		entries:    make(map[string]*LoadResult),
		maxEntries: maxEntries,
	}
}

// Load returns a cached parse when available, otherwise parses once even
// under concurrent identical requests (singleflight) and caches the result.
// Tables are immutable after load, so cached pointers are safe to share.
func (c *LoadCache) Load(content []byte, filename, sepChoice string, previewRows int) (*Table, *Table, error) {
	key := cacheKey(content, filename, sepChoice, previewRows)

	c.mu.RLock()
	if cached, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return cached.Full, cached.Preview, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		full, preview, err := Load(content, filename, sepChoice, previewRows)
		if err != nil {
			return nil, err
		}
		res := &LoadResult{Full: full, Preview: preview}
		c.store(key, res)
		return res, nil
	})
	if err != nil {
		return nil, nil, err
	}

	res := result.(*LoadResult)
	return res.Full, res.Preview, nil
}

func (c *LoadCache) store(key string, res *LoadResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
		log.Printf("[LoadCache] Evicted one entry (cap %d)", c.maxEntries)
	}
	c.entries[key] = res
}

// Len returns the number of cached parses.
func (c *LoadCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cacheKey(content []byte, filename, sepChoice string, previewRows int) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%x|%s|%s|%d", sum, filename, sepChoice, previewRows)
}
