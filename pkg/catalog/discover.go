package catalog

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/fulmenhq/svgaudit/pkg/ignore"
	"github.com/fulmenhq/svgaudit/pkg/logger"
	"github.com/fulmenhq/svgaudit/pkg/reconcile"
)

// DiscoverOptions control which files under the image folder are assets
// and how the listing is ordered.
type DiscoverOptions struct {
	// Include holds doublestar patterns matched against slash-separated
	// paths relative to the image folder. Empty means "*.svg".
	Include []string
	// Trailing names are listed last, in the order given.
	Trailing []string
	Sequence reconcile.Sequence
	// Exclude holds gitignore-style patterns applied after the folder's
	// .gitignore and .svgauditignore files.
	Exclude []string
}

// Discover walks root on fsys and returns the matching asset names, relative
// to root, ordered by SortListing. Matching ignores the case of the name,
// so IMG.SVG is picked up by *.svg. Paths excluded by the folder's ignore
// files or opts.Exclude are skipped.
func Discover(fsys billy.Filesystem, root string, opts DiscoverOptions) ([]string, error) {
	include := opts.Include
	if len(include) == 0 {
		include = []string{"*.svg"}
	}
	for _, pat := range include {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid include pattern %q", pat)
		}
	}

	root = path.Clean(filepath.ToSlash(root))
	ignored, err := ignore.Load(fsys, root, opts.Exclude...)
	if err != nil {
		return nil, err
	}

	var names []string
	err = util.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			logger.Warn("Skipping unreadable path", logger.String("path", p), logger.Err(err))
			return nil
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(filepath.ToSlash(p), root), "/")
		if root == "." {
			rel = strings.TrimPrefix(filepath.ToSlash(p), "./")
		}
		if info.IsDir() {
			if p != root && ignored.Match(rel, true) {
				logger.Trace("Skipping ignored folder", logger.String("path", rel))
				return filepath.SkipDir
			}
			return nil
		}
		if ignored.Match(rel, false) {
			logger.Trace("Skipping ignored file", logger.String("path", rel))
			return nil
		}
		if matchAny(include, rel) {
			names = append(names, rel)
		} else {
			logger.Trace("Ignoring non-asset file", logger.String("path", rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	SortListing(names, opts.Sequence, opts.Trailing)
	logger.Debug("Discovered assets", logger.String("root", root), logger.Int("count", len(names)))
	return names, nil
}

func matchAny(patterns []string, rel string) bool {
	lower := strings.ToLower(rel)
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, lower); ok {
			return true
		}
	}
	return false
}

// SortListing orders names in place the way generated file lists are
// written: the head ordered by reconcile.SortNames, then the trailing names
// in the order given.
func SortListing(names []string, seq reconcile.Sequence, trailing []string) {
	rank := make(map[string]int, len(trailing))
	for i, name := range trailing {
		if _, dup := rank[name]; !dup {
			rank[name] = i
		}
	}

	head := names[:0:0]
	var tail []string
	for _, name := range names {
		if _, ok := rank[name]; ok {
			tail = append(tail, name)
		} else {
			head = append(head, name)
		}
	}
	reconcile.SortNames(head, seq)
	slices.SortStableFunc(tail, func(a, b string) int { return rank[a] - rank[b] })

	copy(names, head)
	copy(names[len(head):], tail)
}
