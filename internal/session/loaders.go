package session

import (
	"context"
	"errors"
	"io/fs"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/fulmenhq/svgaudit/pkg/catalog"
	"github.com/fulmenhq/svgaudit/pkg/logger"
	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

// TreeFromFile reads and parses the usage tree at name.
func TreeFromFile(fsys billy.Filesystem, name string) TreeSource {
	return func(ctx context.Context) (*usagetree.Branch, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := util.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		root, err := usagetree.Parse(data)
		if err != nil {
			return nil, err
		}
		logger.Debug("Usage tree loaded", logger.String("path", name), logger.Int("categories", root.Len()))
		return root, nil
	}
}

// StaticTree serves an already parsed tree.
func StaticTree(root *usagetree.Branch) TreeSource {
	return func(context.Context) (*usagetree.Branch, error) { return root, nil }
}

// ListingFromFileList reads the generated file list at listPath. When the
// list is missing or invalid the image folder dir is scanned instead.
func ListingFromFileList(fsys billy.Filesystem, listPath, dir string, opts catalog.DiscoverOptions) ListingSource {
	return func(ctx context.Context) ([]string, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fl, err := catalog.LoadFileList(fsys, listPath)
		if err == nil {
			logger.Debug("Using file list", logger.String("path", listPath), logger.Int("count", fl.Count))
			return fl.Files, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No file list, scanning image folder", logger.String("dir", dir))
		} else {
			logger.Warn("Ignoring unusable file list, scanning image folder",
				logger.String("path", listPath), logger.Err(err))
		}
		return catalog.Discover(fsys, dir, opts)
	}
}

// StaticListing serves a fixed listing.
func StaticListing(names []string) ListingSource {
	return func(context.Context) ([]string, error) { return names, nil }
}
