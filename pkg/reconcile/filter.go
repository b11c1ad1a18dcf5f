package reconcile

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

// UsageFilter selects assets by whether the tree references them.
type UsageFilter string

const (
	UsageAll    UsageFilter = "all"
	UsageUsed   UsageFilter = "used"
	UsageUnused UsageFilter = "unused"
)

// ParseUsageFilter accepts all, used or unused; "" means all.
func ParseUsageFilter(s string) (UsageFilter, error) {
	switch f := UsageFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", UsageAll:
		return UsageAll, nil
	case UsageUsed, UsageUnused:
		return f, nil
	default:
		return "", fmt.Errorf("unknown usage filter %q (want all|used|unused)", s)
	}
}

// Filter is the gallery cross-filter. The usage, dimension and category
// groups are combined with AND; categories within their group with OR.
type Filter struct {
	Usage UsageFilter
	// Correct and Incorrect toggle assets by dimension class. Assets not yet
	// measured count as incorrect.
	Correct   bool
	Incorrect bool
	// Categories holds the enabled top-level categories, lowercased. A nil
	// map enables every category; a category missing from a non-nil map is
	// disabled.
	Categories map[string]bool
}

// NewFilter shows everything, with the given categories enabled. No
// categories means no category restriction.
func NewFilter(categories ...string) Filter {
	f := Filter{Usage: UsageAll, Correct: true, Incorrect: true}
	if len(categories) > 0 {
		f.Categories = make(map[string]bool, len(categories))
		for _, c := range categories {
			f.Categories[strings.ToLower(c)] = true
		}
	}
	return f
}

// CategoryEnabled reports whether paths under category pass the filter.
func (f Filter) CategoryEnabled(category string) bool {
	if f.Categories == nil {
		return true
	}
	return f.Categories[strings.ToLower(category)]
}

// Asset is the per-asset state the filter decides on.
type Asset struct {
	Name  string
	Paths []usagetree.Path
	Class DimensionClass
}

// Visible reports whether a passes all three filter groups.
func (f Filter) Visible(a Asset) bool {
	used := len(a.Paths) > 0
	switch f.Usage {
	case UsageUsed:
		if !used {
			return false
		}
	case UsageUnused:
		if used {
			return false
		}
	}

	if a.Class == DimensionsCorrect {
		if !f.Correct {
			return false
		}
	} else if !f.Incorrect {
		return false
	}

	if used {
		for _, p := range a.Paths {
			if f.CategoryEnabled(p.Category()) {
				return true
			}
		}
		return false
	}
	return true
}

// Breadcrumbs returns the paths whose category is enabled.
func (f Filter) Breadcrumbs(paths []usagetree.Path) []usagetree.Path {
	var out []usagetree.Path
	for _, p := range paths {
		if f.CategoryEnabled(p.Category()) {
			out = append(out, p)
		}
	}
	return out
}
