package usagetree

import "errors"

// SkipChildren can be returned by a WalkFunc to skip the children of the
// node just visited. It is not reported as an error by Walk.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every branch and leaf below the root. The path
// passed in is owned by the callee.
type WalkFunc func(path Path, n Node) error

// Walk visits every branch and leaf in document order, depth first. Opaque
// values are skipped. Traversal always descends: after a leaf is visited, its
// object-valued extra fields are walked as well unless fn returns SkipChildren.
func Walk(root *Branch, fn WalkFunc) error {
	err := walkBranch(root, nil, fn)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func walkBranch(b *Branch, path Path, fn WalkFunc) error {
	var err error
	b.Each(func(key string, n Node) bool {
		err = walkNode(path.Child(key), n, fn)
		return err == nil
	})
	return err
}

func walkNode(path Path, n Node, fn WalkFunc) error {
	switch v := n.(type) {
	case *Branch:
		if err := fn(path, v); err != nil {
			if errors.Is(err, SkipChildren) {
				return nil
			}
			return err
		}
		return walkBranch(v, path, fn)
	case *Leaf:
		if err := fn(path, v); err != nil {
			if errors.Is(err, SkipChildren) {
				return nil
			}
			return err
		}
		var err error
		v.EachExtra(func(key string, child Node) bool {
			err = walkNode(path.Child(key), child, fn)
			return err == nil
		})
		return err
	default:
		return nil
	}
}

// Entry is a leaf together with the path that reaches it.
type Entry struct {
	Path Path
	Leaf *Leaf
}

// Leaves lists every leaf in document order. Unlike Walk it stops at a leaf
// and never lists leaves nested inside another leaf's extra fields, which is
// how leaves are laid out as cards.
func Leaves(root *Branch) []Entry {
	var out []Entry
	_ = Walk(root, func(path Path, n Node) error {
		if leaf, ok := n.(*Leaf); ok {
			out = append(out, Entry{Path: path, Leaf: leaf})
			return SkipChildren
		}
		return nil
	})
	return out
}

// Resolve returns the node at path. Intermediate leaves are entered through
// their extra fields.
func Resolve(root *Branch, path Path) (Node, error) {
	if len(path) == 0 {
		return root, nil
	}
	var cur Node = root
	for i, key := range path {
		var next Node
		var ok bool
		switch v := cur.(type) {
		case *Branch:
			next, ok = v.Get(key)
		case *Leaf:
			next, ok = v.Extra(key)
		}
		if !ok {
			return nil, &PathError{Path: path[:i+1], Err: ErrPathNotFound}
		}
		cur = next
	}
	return cur, nil
}
