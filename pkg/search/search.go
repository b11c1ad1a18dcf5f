// Package search filters a usage tree by a free-text query and highlights
// the matched terms for display.
//
// Matching is a linear walk over the tree. A query is split on whitespace into
// terms, and a leaf matches when a single one of its fields (path, img, text
// or para) contains every term, compared case-insensitively.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

// Terms normalizes query and splits it into its search terms. An empty or
// whitespace-only query yields no terms.
func Terms(query string) []string {
	return strings.Fields(fold(strings.TrimSpace(query)))
}

// Filter returns the subtree of tree whose leaves match query, keeping every
// ancestor of a surviving leaf and pruning branches left empty. Key order is
// preserved and leaves are shared with tree, never copied.
//
// An empty or whitespace-only query returns tree itself; callers must treat
// the result as read-only.
func Filter(tree *usagetree.Branch, query string) *usagetree.Branch {
	terms := Terms(query)
	if len(terms) == 0 {
		return tree
	}
	return filterBranch(tree, nil, terms)
}

func filterBranch(b *usagetree.Branch, path usagetree.Path, terms []string) *usagetree.Branch {
	out := usagetree.NewBranch()
	b.Each(func(key string, n usagetree.Node) bool {
		childPath := path.Child(key)
		switch v := n.(type) {
		case *usagetree.Leaf:
			if IsMatch(childPath, v, terms) {
				out.Set(key, v)
			}
		case *usagetree.Branch:
			if sub := filterBranch(v, childPath, terms); sub.Len() > 0 {
				out.Set(key, sub)
			}
		}
		return true
	})
	return out
}

// IsMatch reports whether any single field of the leaf contains all terms.
// The fields checked are the path (segments joined by spaces, including the
// leaf's own key), img, text and para. Terms must already be normalized with
// Terms.
func IsMatch(path usagetree.Path, leaf *usagetree.Leaf, terms []string) bool {
	if leaf == nil {
		return false
	}
	for _, field := range []string{path.Words(), leaf.Img, leaf.Text, leaf.Para} {
		if containsAll(field, terms) {
			return true
		}
	}
	return false
}

func containsAll(text string, terms []string) bool {
	if text == "" {
		return false
	}
	folded := fold(text)
	for _, term := range terms {
		if !strings.Contains(folded, term) {
			return false
		}
	}
	return true
}

// fold lowercases s. A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}
