// Package usagetree models the usage map: a nested, key-ordered JSON mapping
// from categories down to leaves that reference asset files.
//
// Every JSON object is classified exactly once, when the document is parsed:
// an object carrying a non-empty string "img" field becomes a *Leaf, any other
// object becomes a *Branch, and everything else (scalars, arrays, objects with
// a non-string "img") becomes an Opaque value that traversal skips but
// encoding writes back verbatim.
package usagetree

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindBranch Kind = iota
	KindLeaf
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindBranch:
		return "branch"
	case KindLeaf:
		return "leaf"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Node is one value of the usage tree. The set of implementations is closed:
// *Branch, *Leaf and Opaque.
type Node interface {
	Kind() Kind
	node()
}

// Branch is an ordered mapping of keys to child nodes. A nil *Branch behaves
// as an empty branch for every read operation.
type Branch struct {
	children *orderedmap.OrderedMap[string, Node]
}

// NewBranch returns an empty branch.
func NewBranch() *Branch {
	return &Branch{children: orderedmap.New[string, Node]()}
}

func (*Branch) Kind() Kind { return KindBranch }
func (*Branch) node()      {}

// Len returns the number of direct children.
func (b *Branch) Len() int {
	if b == nil || b.children == nil {
		return 0
	}
	return b.children.Len()
}

// Get returns the child stored under key.
func (b *Branch) Get(key string) (Node, bool) {
	if b == nil || b.children == nil {
		return nil, false
	}
	return b.children.Get(key)
}

// Set stores n under key. New keys are appended; existing keys keep their position.
func (b *Branch) Set(key string, n Node) {
	if b.children == nil {
		b.children = orderedmap.New[string, Node]()
	}
	b.children.Set(key, n)
}

// Delete removes key and reports whether it was present.
func (b *Branch) Delete(key string) bool {
	if b == nil || b.children == nil {
		return false
	}
	_, ok := b.children.Delete(key)
	return ok
}

// Keys returns the child keys in document order.
func (b *Branch) Keys() []string {
	keys := make([]string, 0, b.Len())
	b.Each(func(key string, _ Node) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Each calls fn for every child in document order until fn returns false.
func (b *Branch) Each(fn func(key string, n Node) bool) {
	if b == nil || b.children == nil {
		return
	}
	for pair := b.children.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Leaf references one asset file. Fields other than img, text and para are
// kept in Extra; object-valued extras are parsed nodes and are walked like
// branch children.
type Leaf struct {
	Img  string
	Text string
	Para string

	hasText bool
	hasPara bool
	order   []string
	extra   *orderedmap.OrderedMap[string, Node]
}

// NewLeaf returns a leaf referencing img.
func NewLeaf(img, text, para string) *Leaf {
	return &Leaf{Img: img, Text: text, Para: para, hasText: text != "", hasPara: para != ""}
}

func (*Leaf) Kind() Kind { return KindLeaf }
func (*Leaf) node()      {}

// HasText reports whether the leaf carries a text field, even an empty one.
func (l *Leaf) HasText() bool { return l.hasText || l.Text != "" }

// HasPara reports whether the leaf carries a para field, even an empty one.
func (l *Leaf) HasPara() bool { return l.hasPara || l.Para != "" }

// EachExtra calls fn for every extra field in document order until fn returns false.
func (l *Leaf) EachExtra(fn func(key string, n Node) bool) {
	if l == nil || l.extra == nil {
		return
	}
	for pair := l.extra.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Extra returns the extra field stored under key.
func (l *Leaf) Extra(key string) (Node, bool) {
	if l == nil || l.extra == nil {
		return nil, false
	}
	return l.extra.Get(key)
}

// Opaque is a value that is neither a leaf nor a branch. It is skipped by
// traversal and written back unchanged.
type Opaque struct {
	Raw json.RawMessage
}

func (Opaque) Kind() Kind { return KindOpaque }
func (Opaque) node()      {}
