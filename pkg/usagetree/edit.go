package usagetree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPathNotFound = errors.New("path not found")
	ErrNotLeaf      = errors.New("node is not a leaf")
	ErrEmptyImage   = errors.New("img must not be empty")
	ErrUnknownField = errors.New("unknown leaf field")
)

// PathError records the path an edit or lookup failed on.
type PathError struct {
	Path Path
	Err  error
}

func (e *PathError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *PathError) Unwrap() error { return e.Err }

// Field names an editable leaf field.
type Field string

const (
	FieldImg  Field = fieldImg
	FieldText Field = fieldText
	FieldPara Field = fieldPara
)

// ParseField accepts img, text or para in any case.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldImg, FieldText, FieldPara:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}

// Get returns the value of f on the leaf.
func (l *Leaf) Get(f Field) string {
	switch f {
	case FieldImg:
		return l.Img
	case FieldText:
		return l.Text
	case FieldPara:
		return l.Para
	default:
		return ""
	}
}

// SetField mutates one field of the leaf at path in place. img may not be set
// to the empty string, since that would stop the node from being a leaf.
func SetField(root *Branch, path Path, f Field, value string) error {
	n, err := Resolve(root, path)
	if err != nil {
		return err
	}
	leaf, ok := n.(*Leaf)
	if !ok {
		return &PathError{Path: path, Err: ErrNotLeaf}
	}
	switch f {
	case FieldImg:
		if strings.TrimSpace(value) == "" {
			return &PathError{Path: path, Err: ErrEmptyImage}
		}
		leaf.Img = value
	case FieldText:
		leaf.Text, leaf.hasText = value, true
	case FieldPara:
		leaf.Para, leaf.hasPara = value, true
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if leaf.extra != nil {
		leaf.extra.Delete(string(f))
	}
	return nil
}
