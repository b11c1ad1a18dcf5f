package usagetree

import (
	"strings"
)

// Separator joins path segments for display and as the canonical index key.
const Separator = " > "

// Path is the sequence of keys from the root to a node. Segment 0 is the category.
type Path []string

// ParsePath splits a display path such as "hr > employee > default".
func ParsePath(s string) Path {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, Separator)
	p := make(Path, len(parts))
	for i, part := range parts {
		p[i] = strings.TrimSpace(part)
	}
	return p
}

// String joins the path with Separator.
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Words joins the path with single spaces, the form used for text matching.
func (p Path) Words() string {
	return strings.Join(p, " ")
}

// Category returns the top-level segment, or "" for an empty path.
func (p Path) Category() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Child returns a new path extended by key. The receiver is never modified.
func (p Path) Child(key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}

// Equal reports whether both paths have identical segments.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
