package reconcile

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Unused returns the names no tree path references, ordered by SortNames.
func Unused(names []string, ix *Index, seq Sequence) []string {
	var unused []string
	for _, name := range names {
		if !ix.IsUsed(name) {
			unused = append(unused, name)
		}
	}
	SortNames(unused, seq)
	return unused
}

// SortNames orders names in place. Two numbered names of seq compare by
// number (bg2 before bg10); any other pair compares the full names in
// collation order. Ties fall back to a byte-wise comparison so the order is
// total.
func SortNames(names []string, seq Sequence) {
	c := collate.New(language.Und)
	slices.SortStableFunc(names, func(a, b string) int {
		an, aok := seq.Number(a)
		bn, bok := seq.Number(b)
		if aok && bok {
			if an != bn {
				return cmp.Compare(an, bn)
			}
		} else if r := c.CompareString(a, b); r != 0 {
			return r
		}
		return strings.Compare(a, b)
	})
}
