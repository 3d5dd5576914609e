package artifact

import (
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of resources kept by NewResourceCache(0).
const DefaultCacheSize = 32

type cachedResource struct {
	data    []byte
	size    int64
	modTime time.Time
}

// ResourceCache memoizes LoadBytes by path. An entry is dropped when the file
// size or modification time changes. It is safe for concurrent use.
type ResourceCache struct {
	entries *lru.Cache
}

// NewResourceCache creates a cache holding up to size resources.
func NewResourceCache(size int) (*ResourceCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource cache: %w", err)
	}
	return &ResourceCache{entries: c}, nil
}

// Load returns the content of path, reading the file only when it is not cached
// or changed on disk. Callers must not modify the returned slice.
func (c *ResourceCache) Load(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.entries.Remove(path)
		// LoadBytes produces the error taxonomy.
		return LoadBytes(path)
	}
	if v, ok := c.entries.Get(path); ok {
		res := v.(cachedResource)
		if res.size == info.Size() && res.modTime.Equal(info.ModTime()) {
			return res.data, nil
		}
	}

	data, err := LoadBytes(path)
	if err != nil {
		return nil, err
	}
	c.entries.Add(path, cachedResource{data: data, size: info.Size(), modTime: info.ModTime()})
	return data, nil
}

// Len returns the number of cached resources.
func (c *ResourceCache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached resource.
func (c *ResourceCache) Purge() {
	c.entries.Purge()
}
