package branchcache

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dor-app/dor-backend-go/internal/domain/branch"
)

// Cache is an explicitly-invalidated branch cache keyed by branch ID. The
// attendance engine reads through it; the branch service invalidates an
// entry whenever the branch is updated or deleted, so a stale coordinate or
// radius is never used for a geofence decision after an edit lands.
type Cache struct {
	cache *ristretto.Cache[string, branch.Branch]
}

func New() (*Cache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, branch.Branch]{
		NumCounters: 10000, // 10x the expected branch count
		MaxCost:     1000,  // Max 1000 branches cached
		BufferItems: 64,    // Recommended buffer size
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create branch cache: %w", err)
	}
	return &Cache{cache: cache}, nil
}

func (c *Cache) Get(id string) (branch.Branch, bool) {
	return c.cache.Get(id)
}

func (c *Cache) Set(b branch.Branch) {
	c.cache.Set(b.ID, b, 1)
	// Ristretto applies sets asynchronously; Wait makes the entry visible to
	// the next Get so read-through callers do not refetch.
	c.cache.Wait()
}

func (c *Cache) Invalidate(id string) {
	c.cache.Del(id)
	c.cache.Wait()
}

func (c *Cache) Close() {
	c.cache.Close()
}
