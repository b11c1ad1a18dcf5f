// Package reconcile cross-references discovered asset files against the
// usage tree: which assets are used and where, which numbered assets are
// missing from their sequence, and which assets pass the gallery filters.
package reconcile

import (
	"regexp"
	"sort"

	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

// Index maps an asset filename to every path that references it, in
// document order. It is built in one pass and never patched: rebuild it
// whenever the tree changes. A nil *Index is empty.
type Index struct {
	paths map[string][]usagetree.Path
}

// BuildIndex walks the whole tree, descending into every node, and records
// the path of each leaf under its img value.
func BuildIndex(root *usagetree.Branch) *Index {
	ix := &Index{paths: make(map[string][]usagetree.Path)}
	_ = usagetree.Walk(root, func(path usagetree.Path, n usagetree.Node) error {
		if leaf, ok := n.(*usagetree.Leaf); ok {
			ix.paths[leaf.Img] = append(ix.paths[leaf.Img], path)
		}
		return nil
	})
	return ix
}

// References returns the paths that reference filename exactly.
func (ix *Index) References(filename string) []usagetree.Path {
	if ix == nil {
		return nil
	}
	return ix.paths[filename]
}

var imageExt = regexp.MustCompile(`(?i)\.(svg|png)$`)

// Lookup returns the paths referencing filename. When there is no exact
// entry the extension is swapped, trying base.png and then base.svg, since
// the tree and the catalog may name the same asset with either extension.
// A miss returns nil.
func (ix *Index) Lookup(filename string) []usagetree.Path {
	if ix == nil {
		return nil
	}
	if paths := ix.paths[filename]; len(paths) > 0 {
		return paths
	}
	base := imageExt.ReplaceAllString(filename, "")
	for _, candidate := range []string{base + ".png", base + ".svg"} {
		if paths := ix.paths[candidate]; len(paths) > 0 {
			return paths
		}
	}
	return nil
}

// IsUsed reports whether Lookup finds any reference.
func (ix *Index) IsUsed(filename string) bool {
	return len(ix.Lookup(filename)) > 0
}

// Filenames returns every referenced filename, sorted.
func (ix *Index) Filenames() []string {
	if ix == nil {
		return nil
	}
	out := make([]string, 0, len(ix.paths))
	for name := range ix.paths {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of distinct referenced filenames.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.paths)
}
