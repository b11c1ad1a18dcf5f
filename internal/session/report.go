package session

import (
	"context"
	"fmt"

	"github.com/go-git/go-billy/v5"

	"github.com/fulmenhq/svgaudit/pkg/catalog"
	"github.com/fulmenhq/svgaudit/pkg/logger"
	"github.com/fulmenhq/svgaudit/pkg/reconcile"
	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

// Report is the reconciliation of the catalog against the tree.
type Report struct {
	Assets     int `json:"assets" yaml:"assets" toml:"assets"`
	Referenced int `json:"referenced" yaml:"referenced" toml:"referenced"`
	// SequenceEnd is the highest number among the sequence assets.
	SequenceEnd int                  `json:"sequence_end" yaml:"sequence_end" toml:"sequence_end"`
	Missing     []int                `json:"missing" yaml:"missing" toml:"missing"`
	MissingFile []string             `json:"missing_files" yaml:"missing_files" toml:"missing_files"`
	Unused      []string             `json:"unused" yaml:"unused" toml:"unused"`
	Incorrect   []reconcile.Measured `json:"incorrect_dimensions" yaml:"incorrect_dimensions" toml:"incorrect_dimensions"`
	// Pending lists assets with no measurement yet.
	Pending  []string             `json:"pending" yaml:"pending" toml:"pending"`
	Expected reconcile.Dimensions `json:"expected" yaml:"expected" toml:"expected"`
}

// Report computes missing, unused and incorrectly sized assets. Every list
// is empty, never nil, so encoders print [] for a clean catalog.
func (s *Session) Report() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := s.catalog.Names()
	seq := s.opts.Sequence
	r := Report{
		Assets:      len(names),
		Referenced:  s.index.Len(),
		SequenceEnd: seq.End(names),
		Missing:     seq.Missing(names),
		Unused:      reconcile.Unused(names, s.index, seq),
		Incorrect:   reconcile.IncorrectDimensions(s.catalog.Measured(), s.opts.Expected),
		Pending:     s.catalog.Pending(),
		Expected:    s.opts.Expected,
	}
	if len(r.Missing) == reconcile.MaxMissing {
		logger.Warn("Missing list truncated", logger.Int("limit", reconcile.MaxMissing), logger.Int("sequence_end", r.SequenceEnd))
	}
	for _, n := range r.Missing {
		r.MissingFile = append(r.MissingFile, seq.FileName(n))
	}
	if r.Missing == nil {
		r.Missing = []int{}
	}
	if r.MissingFile == nil {
		r.MissingFile = []string{}
	}
	if r.Unused == nil {
		r.Unused = []string{}
	}
	if r.Incorrect == nil {
		r.Incorrect = []reconcile.Measured{}
	}
	if r.Pending == nil {
		r.Pending = []string{}
	}
	return r
}

// ApplyDimensions records a measurement for name and reclassifies that
// asset alone. Applying the same measurement again changes nothing.
func (s *Session) ApplyDimensions(name string, d reconcile.Dimensions) (reconcile.DimensionClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed, err := s.catalog.SetDimensions(name, d)
	if err != nil {
		return reconcile.DimensionsPending, fmt.Errorf("%s: %w", name, err)
	}
	class := reconcile.Classify(d, true, s.opts.Expected)
	s.classes[name] = class
	if changed {
		logger.Trace("Dimensions recorded",
			logger.String("asset", name),
			logger.String("size", d.String()),
			logger.String("class", class.String()))
	}
	return class, nil
}

// Class returns the dimension class of name.
func (s *Session) Class(name string) reconcile.DimensionClass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classes[name]
}

// Measure measures every pending asset under dir on fsys and applies each
// result as it arrives. Assets that cannot be measured stay pending.
func (s *Session) Measure(ctx context.Context, fsys billy.Filesystem, dir string, workers int) error {
	pending := s.catalog.Pending()
	failed := 0
	err := catalog.MeasureAll(ctx, fsys, dir, pending, workers, func(r catalog.Result) {
		if r.Err != nil {
			failed++
			logger.Warn("Could not measure asset", logger.String("asset", r.Name), logger.Err(r.Err))
			return
		}
		if _, err := s.ApplyDimensions(r.Name, r.Dimensions); err != nil {
			logger.Warn("Dropping measurement", logger.Err(err))
		}
	})
	logger.Debug("Measurement finished", logger.Int("assets", len(pending)), logger.Int("failed", failed))
	return err
}

// GalleryItem is one asset as the gallery shows it.
type GalleryItem struct {
	Name        string                `json:"name" yaml:"name" toml:"name"`
	Used        bool                  `json:"used" yaml:"used" toml:"used"`
	Class       string                `json:"dimensions_class" yaml:"dimensions_class" toml:"dimensions_class"`
	Dimensions  *reconcile.Dimensions `json:"dimensions,omitempty" yaml:"dimensions,omitempty" toml:"dimensions,omitempty"`
	Breadcrumbs []string              `json:"breadcrumbs" yaml:"breadcrumbs" toml:"breadcrumbs"`
}

// Asset returns the filter input for name.
func (s *Session) Asset(name string) reconcile.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reconcile.Asset{Name: name, Paths: s.index.Lookup(name), Class: s.classes[name]}
}

// Visible reports whether name passes f.
func (s *Session) Visible(name string, f reconcile.Filter) bool {
	return f.Visible(s.Asset(name))
}

// Gallery returns the assets visible under f in listing order, each with
// the breadcrumbs of its enabled categories.
func (s *Session) Gallery(f reconcile.Filter) []GalleryItem {
	items := []GalleryItem{}
	for _, name := range s.catalog.Names() {
		a := s.Asset(name)
		if !f.Visible(a) {
			continue
		}
		item := GalleryItem{
			Name:        name,
			Used:        len(a.Paths) > 0,
			Class:       a.Class.String(),
			Breadcrumbs: pathStrings(f.Breadcrumbs(a.Paths)),
		}
		if d, ok := s.catalog.Dimensions(name); ok {
			item.Dimensions = &d
		}
		items = append(items, item)
	}
	return items
}

func pathStrings(paths []usagetree.Path) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, p.String())
	}
	return out
}
