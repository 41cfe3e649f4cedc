// Package cache implements the bounded least-recently-used store for
// decoded images. The cache is owned by the viewer's control goroutine;
// it is not safe for concurrent use and does not need to be, since decode
// completions and navigation are consumed by the same loop.
package cache

import (
	"container/list"
	"image"

	"kingview/pkg/types"
)

// DefaultCapacity is the cache size used when none is configured.
const DefaultCapacity = 15

// CachedImage is the fully decoded, display-ready artifact for one path.
// Callers receive a shared read-only view; the cache owns the entry.
type CachedImage struct {
	Bitmap image.Image
	Info   types.ImageInfo
	Meta   types.Metadata
}

type entry struct {
	path  string
	image *CachedImage
}

// Cache is an LRU map from absolute image path to CachedImage.
// The most recently used entry sits at the back of the list.
type Cache struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List
}

// New creates a cache with the given capacity. Capacities below 1 are
// raised to 1.
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached image for path, promoting it to most recently
// used. A lookup counts as a use even though it only reads.
func (c *Cache) Get(path string) (*CachedImage, bool) {
	elem, ok := c.items[path]
	if !ok {
		return nil, false
	}
	c.order.MoveToBack(elem)
	return elem.Value.(*entry).image, true
}

// Contains reports whether path is cached without promoting its recency.
func (c *Cache) Contains(path string) bool {
	_, ok := c.items[path]
	return ok
}

// Put inserts or replaces the image for path as the most recently used
// entry, then evicts least-recently-used entries until size <= capacity.
func (c *Cache) Put(path string, img *CachedImage) {
	if elem, ok := c.items[path]; ok {
		elem.Value.(*entry).image = img
		c.order.MoveToBack(elem)
		return
	}

	c.items[path] = c.order.PushBack(&entry{path: path, image: img})

	for c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).path)
	}
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	return c.order.Len()
}

// Capacity returns the fixed capacity set at construction
func (c *Cache) Capacity() int {
	return c.capacity
}

// Clear removes every entry
func (c *Cache) Clear() {
	c.items = make(map[string]*list.Element)
	c.order.Init()
}
