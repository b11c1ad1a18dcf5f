// Package session owns the loaded usage tree, its index and the asset
// catalog for one audit run, and is the only place they are combined.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/svgaudit/pkg/catalog"
	"github.com/fulmenhq/svgaudit/pkg/logger"
	"github.com/fulmenhq/svgaudit/pkg/reconcile"
	"github.com/fulmenhq/svgaudit/pkg/search"
	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

var (
	ErrTreeUnavailable    = errors.New("usage tree unavailable")
	ErrCatalogUnavailable = errors.New("asset catalog unavailable")
)

// LoadError records which sources failed to load. Either field may be nil.
type LoadError struct {
	Tree    error
	Catalog error
}

func (e *LoadError) Error() string {
	var parts []string
	if e.Tree != nil {
		parts = append(parts, fmt.Sprintf("%v: %v", ErrTreeUnavailable, e.Tree))
	}
	if e.Catalog != nil {
		parts = append(parts, fmt.Sprintf("%v: %v", ErrCatalogUnavailable, e.Catalog))
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the sentinels and the underlying causes to errors.Is.
func (e *LoadError) Unwrap() []error {
	var errs []error
	if e.Tree != nil {
		errs = append(errs, ErrTreeUnavailable, e.Tree)
	}
	if e.Catalog != nil {
		errs = append(errs, ErrCatalogUnavailable, e.Catalog)
	}
	return errs
}

// TreeSource loads the usage tree.
type TreeSource func(ctx context.Context) (*usagetree.Branch, error)

// ListingSource loads the asset listing.
type ListingSource func(ctx context.Context) ([]string, error)

// Options configure a session.
type Options struct {
	Sequence reconcile.Sequence
	Expected reconcile.Dimensions
}

// DefaultOptions matches bg<N>.svg assets drawn at 196×121.
func DefaultOptions() Options {
	return Options{Sequence: reconcile.DefaultSequence(), Expected: reconcile.DefaultExpected}
}

// Session is safe for concurrent use. Trees it returns are shared with the
// session and must be treated as read-only.
type Session struct {
	opts Options

	mu      sync.RWMutex
	tree    *usagetree.Branch
	index   *reconcile.Index
	catalog *catalog.Catalog
	classes map[string]reconcile.DimensionClass
	dirty   bool
	loadErr *LoadError
}

// Open loads the tree and the listing concurrently and returns once both
// have finished. A failed source is recorded, not returned: the session
// then behaves as if that source were empty and LoadError reports it.
func Open(ctx context.Context, tree TreeSource, listing ListingSource, opts Options) *Session {
	var (
		root    *usagetree.Branch
		names   []string
		treeErr error
		listErr error
		g       errgroup.Group
	)
	g.Go(func() error {
		if tree == nil {
			treeErr = errors.New("no tree source")
			return nil
		}
		root, treeErr = tree(ctx)
		return nil
	})
	g.Go(func() error {
		if listing == nil {
			listErr = errors.New("no listing source")
			return nil
		}
		names, listErr = listing(ctx)
		return nil
	})
	_ = g.Wait()

	s := New(root, names, opts)
	if treeErr != nil || listErr != nil {
		s.loadErr = &LoadError{Tree: treeErr, Catalog: listErr}
		logger.Warn("Session loaded with missing sources", logger.Err(s.loadErr))
	}
	logger.Debug("Session ready",
		logger.Int("assets", s.catalog.Len()),
		logger.Int("referenced", s.index.Len()))
	return s
}

// New builds a session from already loaded values. A nil root is an empty
// tree; zero Options mean DefaultOptions.
func New(root *usagetree.Branch, names []string, opts Options) *Session {
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	if root == nil {
		root = usagetree.NewBranch()
	}
	return &Session{
		opts:    opts,
		tree:    root,
		index:   reconcile.BuildIndex(root),
		catalog: catalog.New(names),
		classes: make(map[string]reconcile.DimensionClass),
	}
}

// LoadError returns the *LoadError recorded by Open, or nil.
func (s *Session) LoadError() error {
	if s.loadErr == nil {
		return nil
	}
	return s.loadErr
}

// Require fails when a source the caller depends on did not load.
func (s *Session) Require(tree, catalog bool) error {
	if s.loadErr == nil {
		return nil
	}
	if (tree && s.loadErr.Tree != nil) || (catalog && s.loadErr.Catalog != nil) {
		return s.loadErr
	}
	return nil
}

func (s *Session) Options() Options { return s.opts }

// Tree returns the live tree.
func (s *Session) Tree() *usagetree.Branch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// Names returns the catalog listing.
func (s *Session) Names() []string {
	return s.catalog.Names()
}

// Search returns the tree filtered by query; an empty query returns the
// live tree itself.
func (s *Session) Search(query string) *usagetree.Branch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return search.Filter(s.tree, query)
}

// SearchLeaves flattens the search result into its leaves.
func (s *Session) SearchLeaves(query string) []usagetree.Entry {
	return usagetree.Leaves(s.Search(query))
}

// Usage returns every path referencing name, tolerating an svg/png
// extension mismatch.
func (s *Session) Usage(name string) []usagetree.Path {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Lookup(name)
}

// Breadcrumbs returns the usage paths of name whose category f enables.
func (s *Session) Breadcrumbs(name string, f reconcile.Filter) []usagetree.Path {
	return f.Breadcrumbs(s.Usage(name))
}

// SetField edits one field of the leaf at path and rebuilds the index.
func (s *Session) SetField(path usagetree.Path, field usagetree.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := usagetree.SetField(s.tree, path, field, value); err != nil {
		return err
	}
	s.index = reconcile.BuildIndex(s.tree)
	s.dirty = true
	logger.Debug("Leaf updated",
		logger.String("path", path.String()),
		logger.String("field", string(field)))
	return nil
}

// Dirty reports whether the tree has edits not yet saved.
func (s *Session) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Save encodes the tree to w and clears the dirty flag.
func (s *Session) Save(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := usagetree.Encode(w, s.tree); err != nil {
		return err
	}
	s.dirty = false
	return nil
}
