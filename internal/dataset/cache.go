package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"harga-pangan-go/internal/logger"
)

// Recorder receives cache and load observations
type Recorder interface {
	CacheLookup(kind string, hit bool)
	ObserveLoad(kind string, d time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(string, bool)                 {}
func (nopRecorder) ObserveLoad(string, time.Duration, error) {}

type dataEntry struct {
	identity string
	bundle   *Bundle
}

type geoEntry struct {
	identity string
	geo      *Dataset
}

// Cache memoizes loader results keyed by input identity: the absolute path plus
// modification time and size of every input file. A changed file misses on the
// next lookup; Invalidate drops everything. Failed loads are not cached.
type Cache struct {
	loader *Loader
	rec    Recorder

	mu   sync.Mutex
	gen  uint64
	data map[string]dataEntry
	geo  map[string]geoEntry

	group singleflight.Group
}

func NewCache(loader *Loader, rec Recorder) *Cache {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Cache{
		loader: loader,
		rec:    rec,
		data:   make(map[string]dataEntry),
		geo:    make(map[string]geoEntry),
	}
}

func (c *Cache) Loader() *Loader { return c.loader }

// Data returns the clean/winsorized bundle for the given paths
func (c *Cache) Data(ctx context.Context, cleanPath, winsorPath string) (*Bundle, error) {
	slot := cleanPath + "\x00" + winsorPath
	id := identity(cleanPath) + "|" + identity(winsorPath)

	c.mu.Lock()
	e, ok := c.data[slot]
	gen := c.gen
	c.mu.Unlock()
	if ok && e.identity == id {
		c.rec.CacheLookup("data", true)
		return e.bundle, nil
	}
	c.rec.CacheLookup("data", false)

	v, err, _ := c.group.Do(fmt.Sprintf("data:%d:%s", gen, id), func() (interface{}, error) {
		start := time.Now()
		b, err := c.loader.Load(ctx, cleanPath, winsorPath)
		c.rec.ObserveLoad("data", time.Since(start), err)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.data[slot] = dataEntry{identity: id, bundle: b}
		}
		c.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Bundle), nil
}

// Geo returns the geo dataset, or nil when the file is absent. Absence is
// cached like any other result, so creating the file later is picked up.
func (c *Cache) Geo(ctx context.Context, path string) (*Dataset, error) {
	id := identity(path)

	c.mu.Lock()
	e, ok := c.geo[path]
	gen := c.gen
	c.mu.Unlock()
	if ok && e.identity == id {
		c.rec.CacheLookup("geo", true)
		return e.geo, nil
	}
	c.rec.CacheLookup("geo", false)

	v, err, _ := c.group.Do(fmt.Sprintf("geo:%d:%s", gen, id), func() (interface{}, error) {
		start := time.Now()
		g, err := c.loader.LoadGeo(ctx, path)
		c.rec.ObserveLoad("geo", time.Since(start), err)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.geo[path] = geoEntry{identity: id, geo: g}
		}
		c.mu.Unlock()
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	g, _ := v.(*Dataset)
	return g, nil
}

// Invalidate drops every cached result. Loads already in flight finish but are not stored.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.data = make(map[string]dataEntry)
	c.geo = make(map[string]geoEntry)
	c.mu.Unlock()
	logger.New().Component("dataset.cache").Info("cache invalidated")
}

// identity fingerprints a file by path, modification time and size
func identity(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fi, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs + "@absent"
		}
		return abs + "@unreadable"
	}
	return fmt.Sprintf("%s@%d:%d", abs, fi.ModTime().UnixNano(), fi.Size())
}
