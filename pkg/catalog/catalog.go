// Package catalog holds the discovered asset files: the listing itself,
// how it is discovered or read from a generated file list, and the pixel
// dimensions measured for each asset as they arrive.
package catalog

import (
	"errors"
	"slices"
	"sync"

	"github.com/fulmenhq/svgaudit/pkg/reconcile"
)

var (
	// ErrUnknownAsset is returned for a name that is not in the catalog.
	ErrUnknownAsset = errors.New("asset not in catalog")
	// ErrNoDimensions is returned when an image carries no usable size.
	ErrNoDimensions = errors.New("no dimensions")
	// ErrInvalidFileList is returned for a file list that fails validation.
	ErrInvalidFileList = errors.New("invalid file list")
)

// Catalog is the ordered set of discovered asset names with their measured
// dimensions. It is safe for concurrent use; measurements may arrive from
// several goroutines while readers list the catalog.
type Catalog struct {
	mu    sync.RWMutex
	names []string
	index map[string]int
	dims  map[string]reconcile.Dimensions
}

// New returns a catalog of names in the given order, dropping duplicates
// and empty names.
func New(names []string) *Catalog {
	c := &Catalog{
		index: make(map[string]int, len(names)),
		dims:  make(map[string]reconcile.Dimensions),
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := c.index[name]; dup {
			continue
		}
		c.index[name] = len(c.names)
		c.names = append(c.names, name)
	}
	return c
}

// Names returns a copy of the listing.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.names)
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[name]
	return ok
}

// SetDimensions records the measured size of name. It reports whether the
// stored value changed, so a repeated arrival of the same measurement is a
// no-op.
func (c *Catalog) SetDimensions(name string, d reconcile.Dimensions) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[name]; !ok {
		return false, ErrUnknownAsset
	}
	if old, ok := c.dims[name]; ok && old == d {
		return false, nil
	}
	c.dims[name] = d
	return true, nil
}

// Dimensions returns the measured size of name; ok is false until a
// measurement has arrived.
func (c *Catalog) Dimensions(name string) (reconcile.Dimensions, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.dims[name]
	return d, ok
}

// Measured returns every measured asset in listing order.
func (c *Catalog) Measured() []reconcile.Measured {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]reconcile.Measured, 0, len(c.dims))
	for _, name := range c.names {
		if d, ok := c.dims[name]; ok {
			out = append(out, reconcile.Measured{Name: name, Dimensions: d})
		}
	}
	return out
}

// Pending returns the names still waiting for a measurement.
func (c *Catalog) Pending() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, name := range c.names {
		if _, ok := c.dims[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
