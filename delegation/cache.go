// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	lru "github.com/hashicorp/golang-lru"
)

// cache caches loaded certificates keyed by issuer stakeholder id.
// Absent certificates are cached as nil values, so repeated misses of the
// same issuer do not hit the store either.
type cache struct {
	*lru.ARCCache
}

func newCache(maxSize int) *cache {
	c, _ := lru.NewARC(maxSize)
	return &cache{c}
}

// GetOrLoad returns the cached value for key, or invokes load and caches
// its result. Load errors are not cached.
func (c *cache) GetOrLoad(key interface{}, load func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := load()
	if err != nil {
		return nil, err
	}
	c.Add(key, value)
	return value, nil
}
