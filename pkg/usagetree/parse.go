package usagetree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrNotObject is returned when the document root is not a JSON object.
var ErrNotObject = errors.New("usage tree root must be a JSON object")

const (
	fieldImg  = "img"
	fieldText = "text"
	fieldPara = "para"
)

// Parse decodes a usage tree, preserving key order at every level.
func Parse(data []byte) (*Branch, error) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, errors.New("invalid usage tree JSON")
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrNotObject
	}
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	// The root is always a branch of categories, whatever fields it carries.
	return parseBranch(fields)
}

// Read decodes a usage tree from r.
func Read(r io.Reader) (*Branch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read usage tree: %w", err)
	}
	return Parse(data)
}

func parseNode(raw json.RawMessage) (Node, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Opaque{Raw: append(json.RawMessage(nil), raw...)}, nil
	}

	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	if imgRaw, ok := fields.Get(fieldImg); ok {
		img, isString := decodeString(imgRaw)
		if !isString {
			// img present but not a string: malformed entry, kept verbatim.
			return Opaque{Raw: append(json.RawMessage(nil), raw...)}, nil
		}
		if img != "" {
			return parseLeaf(img, fields)
		}
	}
	return parseBranch(fields)
}

func parseBranch(fields *orderedmap.OrderedMap[string, json.RawMessage]) (*Branch, error) {
	b := NewBranch()
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		child, err := parseNode(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pair.Key, err)
		}
		b.Set(pair.Key, child)
	}
	return b, nil
}

func decodeObject(raw json.RawMessage) (*orderedmap.OrderedMap[string, json.RawMessage], error) {
	fields := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, fields); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	return fields, nil
}

// decodeString decodes raw only when it is a JSON string; null and other
// types report false.
func decodeString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func parseLeaf(img string, fields *orderedmap.OrderedMap[string, json.RawMessage]) (*Leaf, error) {
	leaf := &Leaf{Img: img, order: make([]string, 0, fields.Len())}
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		leaf.order = append(leaf.order, pair.Key)
		switch pair.Key {
		case fieldImg:
			continue
		case fieldText:
			if text, ok := decodeString(pair.Value); ok {
				leaf.Text, leaf.hasText = text, true
				continue
			}
		case fieldPara:
			if para, ok := decodeString(pair.Value); ok {
				leaf.Para, leaf.hasPara = para, true
				continue
			}
		}
		child, err := parseNode(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pair.Key, err)
		}
		if leaf.extra == nil {
			leaf.extra = orderedmap.New[string, Node]()
		}
		leaf.extra.Set(pair.Key, child)
	}
	return leaf, nil
}
