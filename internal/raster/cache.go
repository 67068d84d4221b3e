// Package raster loads and caches decoded image rasters for snapshot
// resolution. The CLI uses it to serve page.RasterResolver lookups from
// a directory of captured images.
package raster

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// Cache provides thread-safe caching of decoded rasters to avoid
// redundant disk reads when the same image backs several candidates.
//
// Cached rasters remain in memory until Evict or Clear; extraction calls
// are short-lived, so the cache is cleared per run rather than bounded.
type Cache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewCache creates an empty raster cache ready for concurrent use.
func NewCache() *Cache {
	return &Cache{images: make(map[string]image.Image)}
}

// Load returns the raster at path, decoding it on first use.
//
// Supported formats are PNG, JPEG and GIF. The raster is cached under
// the exact path string given; relative and absolute paths to the same
// file are separate entries.
func (c *Cache) Load(p string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[p]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[p] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes one raster from the cache. Unknown paths are ignored.
func (c *Cache) Evict(p string) {
	c.mu.Lock()
	delete(c.images, p)
	c.mu.Unlock()
}

// Clear drops every cached raster.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Info describes a raster file without decoding its pixel data.
type Info struct {
	Path   string
	Width  int
	Height int
	Format string
}

// Stat reads a raster file's header and reports its dimensions and
// format.
func Stat(p string) (Info, error) {
	f, err := os.Open(p)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read image header: %w", err)
	}
	return Info{Path: p, Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// DirResolver builds a page.RasterResolver-compatible function that maps
// an image URL to a file in dir by its final path segment. A snapshot
// producer that saves page images alongside the HTML dump uses exactly
// this layout.
func DirResolver(dir string, cache *Cache) func(url string) (image.Image, error) {
	return func(url string) (image.Image, error) {
		name := path.Base(strings.SplitN(url, "?", 2)[0])
		if name == "." || name == "/" || name == "" {
			return nil, fmt.Errorf("unusable image url %q", url)
		}
		return cache.Load(filepath.Join(dir, name))
	}
}
