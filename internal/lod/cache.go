package lod

import "sync"

// DefaultCapacity is the number of descriptions a Cache keeps.
const DefaultCapacity = 32

type meshKey struct {
	detail int
	radius float32
}

// Cache memoizes descriptions by Params and shares tessellated meshes between
// them.
type Cache struct {
	mu       sync.Mutex
	entries  map[Params]*Description
	meshes   map[meshKey]*Mesh
	capacity int

	// Stats
	hits   int
	misses int
}

// NewCache creates a cache holding up to capacity descriptions. A
// non-positive capacity selects DefaultCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		entries:  make(map[Params]*Description),
		meshes:   make(map[meshKey]*Mesh),
		capacity: capacity,
	}
}

// Get returns the description for p, deriving it on a miss.
func (c *Cache) Get(p Params) *Description {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.entries[p]; ok {
		c.hits++
		return d
	}
	c.misses++

	if len(c.entries) >= c.capacity {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	d := synthesize(p, c.mesh)
	c.entries[p] = &d
	return &d
}

func (c *Cache) mesh(detail int, radius float32) *Mesh {
	key := meshKey{detail: clampDetail(detail), radius: radius}
	if m, ok := c.meshes[key]; ok {
		return m
	}
	m := Icosphere(detail, radius)
	c.meshes[key] = m
	return m
}

// Len returns the number of cached descriptions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops all cached descriptions and meshes.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Params]*Description)
	c.meshes = make(map[meshKey]*Mesh)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
