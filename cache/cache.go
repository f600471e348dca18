// Package cache holds a bounded, mutex-guarded map from 64-bit keys (zobrist
// hashes, payload digests) to computed values. It is shared by the services
// that answer the same position many times.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// minEntries keeps a tiny machine or a tiny fraction from producing a
// useless cache.
const minEntries = 1024

type LoadFunc[V any] func(key uint64) (V, error)

type Cache[V any] struct {
	sync.Mutex
	objects    map[uint64]V
	maxEntries int

	lookups atomic.Uint64
	hits    atomic.Uint64
}

// New makes a cache that holds at most maxEntries values. When full, an
// arbitrary entry is evicted to make room.
func New[V any](maxEntries int) *Cache[V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache[V]{objects: make(map[uint64]V), maxEntries: maxEntries}
}

// NewFromMemory sizes the cache to use about fractionOfMemory of the total
// system memory, assuming each entry takes entrySize bytes.
func NewFromMemory[V any](fractionOfMemory float64, entrySize int) *Cache[V] {
	totalMem := memory.TotalMemory()
	desired := int(fractionOfMemory * float64(totalMem) / float64(entrySize))
	if desired < minEntries {
		desired = minEntries
	}
	log.Info().Int("max-entries", desired).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("cache-size")
	return New[V](desired)
}

func (c *Cache[V]) Get(key uint64) (V, bool) {
	c.Lock()
	defer c.Unlock()
	c.lookups.Add(1)
	v, ok := c.objects[key]
	if ok {
		c.hits.Add(1)
	}
	return v, ok
}

func (c *Cache[V]) Put(key uint64, v V) {
	c.Lock()
	defer c.Unlock()
	c.put(key, v)
}

func (c *Cache[V]) put(key uint64, v V) {
	if _, ok := c.objects[key]; !ok && len(c.objects) >= c.maxEntries {
		for k := range c.objects {
			delete(c.objects, k)
			break
		}
	}
	c.objects[key] = v
}

// GetOrLoad returns the cached value, calling load and storing its result
// on a miss. Errors are not cached.
func (c *Cache[V]) GetOrLoad(key uint64, load LoadFunc[V]) (V, error) {
	c.Lock()
	defer c.Unlock()
	c.lookups.Add(1)
	if v, ok := c.objects[key]; ok {
		c.hits.Add(1)
		log.Debug().Uint64("key", key).Msg("cache-hit")
		return v, nil
	}
	v, err := load(key)
	if err != nil {
		return v, err
	}
	c.put(key, v)
	return v, nil
}

func (c *Cache[V]) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}

func (c *Cache[V]) MaxEntries() int {
	return c.maxEntries
}

// Stats returns the number of lookups and hits so far.
func (c *Cache[V]) Stats() (lookups, hits uint64) {
	return c.lookups.Load(), c.hits.Load()
}

func (c *Cache[V]) Reset() {
	c.Lock()
	defer c.Unlock()
	clear(c.objects)
	c.lookups.Store(0)
	c.hits.Store(0)
}
