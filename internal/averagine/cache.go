package averagine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/rueidis"
)

// Cache stores precomputed isotope-ratio vectors keyed by (mass bin,
// isotope count), so repeated probes that land in the same bin avoid
// recomputing the averagine convolution.
type Cache interface {
	Get(massBin float64, k int) ([]float64, bool)
	Set(massBin float64, k int, ratios []float64)
}

// MemCache is an in-process Cache, the default for a single engine run.
type MemCache struct {
	mu sync.RWMutex
	m  map[cacheKey][]float64
}

type cacheKey struct {
	bin float64
	k   int
}

// NewMemCache constructs an empty in-process cache.
func NewMemCache() *MemCache {
	return &MemCache{m: make(map[cacheKey][]float64)}
}

func (c *MemCache) Get(massBin float64, k int) ([]float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[cacheKey{massBin, k}]
	return v, ok
}

func (c *MemCache) Set(massBin float64, k int, ratios []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[cacheKey{massBin, k}] = ratios
}

// RedisCache shares the averagine lookup table across engine processes via
// rueidis, so a batch of related mzML runs started on different machines
// reuse one precomputed table instead of each recomputing it.
type RedisCache struct {
	client rueidis.Client
	prefix string
}

// NewRedisCache wraps an existing rueidis client. prefix namespaces keys,
// e.g. "multiplex:averagine:".
func NewRedisCache(client rueidis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(massBin float64, k int) string {
	return fmt.Sprintf("%s%.3f:%d", c.prefix, massBin, k)
}

// Get looks up a cached ratio vector. Redis errors and cache misses are both
// reported as (nil, false): the averagine model falls back to recomputing,
// so a transient Redis outage never fails a run.
func (c *RedisCache) Get(massBin float64, k int) ([]float64, bool) {
	ctx := context.Background()
	cmd := c.client.B().Get().Key(c.key(massBin, k)).Build()
	raw, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		return nil, false
	}
	var ratios []float64
	if err := json.Unmarshal([]byte(raw), &ratios); err != nil {
		return nil, false
	}
	return ratios, true
}

// Set stores a ratio vector. Write failures are swallowed: the cache is an
// optimization, not a correctness dependency.
func (c *RedisCache) Set(massBin float64, k int, ratios []float64) {
	buf, err := json.Marshal(ratios)
	if err != nil {
		return
	}
	ctx := context.Background()
	cmd := c.client.B().Set().Key(c.key(massBin, k)).Value(rueidis.BinaryString(buf)).Build()
	_ = c.client.Do(ctx, cmd).Error()
}
