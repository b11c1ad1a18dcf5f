package search

import (
	"regexp"
	"sort"
	"strings"
)

// Marker wraps highlighted substrings.
type Marker struct {
	Open  string
	Close string
}

var (
	// HTMLMarker is the marker used by the browser card view.
	HTMLMarker = Marker{Open: `<span class="highlight">`, Close: `</span>`}
	// ANSIMarker renders matches bold yellow on a terminal.
	ANSIMarker = Marker{Open: "\x1b[1;33m", Close: "\x1b[0m"}
	// BracketMarker is a plain-text marker for logs and tests.
	BracketMarker = Marker{Open: "[", Close: "]"}
)

// Highlight wraps every case-insensitive occurrence of each query term in
// text with m. Terms are tried longest first in a single pass, so a shorter
// term never re-wraps part of a longer match and removing the markers gives
// back text exactly.
//
// Markers are inserted verbatim: if the output is rendered as markup, text
// must be escaped by the caller beforehand.
func Highlight(text, query string, m Marker) string {
	if text == "" {
		return text
	}
	re := termPattern(query)
	if re == nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, func(match string) string {
		return m.Open + match + m.Close
	})
}

// termPattern builds one alternation of the query terms, longest first. Terms
// are normalized by Terms, the same way Filter matches them.
func termPattern(query string) *regexp.Regexp {
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(terms))
	unique := terms[:0]
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return len(unique[i]) > len(unique[j])
	})
	quoted := make([]string, len(unique))
	for i, t := range unique {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
}
