package mapbox

import (
	"container/list"
	"context"
	"math"
	"sync"

	"github.com/carlhiggs/global-scorecards/internal/observability"
)

// Fetcher returns basemap images.
type Fetcher interface {
	Basemap(ctx context.Context, lon, lat, zoom float64, width, height int) ([]byte, error)
}

// CachedFetcher wraps a Fetcher with an in-memory LRU cache. A city's
// basemap is requested once per language, so repeats are the common case.
type CachedFetcher struct {
	inner   Fetcher
	cache   *lruCache[basemapKey]
	metrics *observability.Metrics
}

// basemapKey identifies a basemap request. Coordinates are rounded to the
// precision sent to the API.
type basemapKey struct {
	lon, lat, zoom float64
	width, height  int
}

func newBasemapKey(lon, lat, zoom float64, width, height int) basemapKey {
	return basemapKey{
		lon:    round(lon, 6),
		lat:    round(lat, 6),
		zoom:   round(zoom, 2),
		width:  width,
		height: height,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// NewCachedFetcher creates a cache decorator holding up to maxEntries images.
func NewCachedFetcher(inner Fetcher, maxEntries int, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		cache:   newLRUCache[basemapKey](maxEntries),
		metrics: metrics,
	}
}

// Basemap returns the cached image for the request or fetches and caches it.
// Failed and empty fetches are not cached.
func (c *CachedFetcher) Basemap(ctx context.Context, lon, lat, zoom float64, width, height int) ([]byte, error) {
	key := newBasemapKey(lon, lat, zoom, width, height)
	if img, ok := c.cache.get(key); ok {
		c.metrics.BasemapCache.WithLabelValues("hit").Inc()
		return img, nil
	}
	c.metrics.BasemapCache.WithLabelValues("miss").Inc()

	img, err := c.inner.Basemap(ctx, lon, lat, zoom, width, height)
	if err != nil {
		return nil, err
	}
	if len(img) > 0 {
		c.cache.put(key, img)
	}
	return img, nil
}

// lruCache is a mutex-guarded LRU of image bytes. The front of order is the
// most recently used entry.
type lruCache[K comparable] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[K]*list.Element
	size     int // total cached bytes
}

type lruItem[K comparable] struct {
	key K
	img []byte
}

func newLRUCache[K comparable](capacity int) *lruCache[K] {
	return &lruCache[K]{
		capacity: max(capacity, 1),
		order:    list.New(),
		items:    make(map[K]*list.Element),
	}
}

func (c *lruCache[K]) get(key K) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruItem[K]).img, true
}

func (c *lruCache[K]) put(key K, img []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		it := el.Value.(*lruItem[K])
		c.size += len(img) - len(it.img)
		it.img = img
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&lruItem[K]{key: key, img: img})
	c.size += len(img)
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		it := c.order.Remove(oldest).(*lruItem[K])
		delete(c.items, it.key)
		c.size -= len(it.img)
	}
}

func (c *lruCache[K]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// bytes returns the total size of the cached images.
func (c *lruCache[K]) bytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
