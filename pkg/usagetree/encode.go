package usagetree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Encode writes the tree as two-space indented JSON followed by a newline.
// Key order, extra leaf fields and opaque values are preserved, so a parsed
// document round-trips unchanged in shape. A nil tree encodes as {}.
func Encode(w io.Writer, root *Branch) error {
	data, err := Marshal(root)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("failed to indent usage tree: %w", err)
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// Marshal returns the compact JSON form of the tree.
func Marshal(root *Branch) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNode(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (b *Branch) MarshalJSON() ([]byte, error) { return Marshal(b) }

// MarshalJSON implements json.Marshaler.
func (l *Leaf) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeLeaf(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (o Opaque) MarshalJSON() ([]byte, error) {
	if len(o.Raw) == 0 {
		return []byte("null"), nil
	}
	return o.Raw, nil
}

func writeNode(buf *bytes.Buffer, n Node) error {
	switch v := n.(type) {
	case *Branch:
		return writeBranch(buf, v)
	case *Leaf:
		return writeLeaf(buf, v)
	case Opaque:
		raw, _ := v.MarshalJSON()
		buf.Write(raw)
		return nil
	case nil:
		buf.WriteString("null")
		return nil
	default:
		return fmt.Errorf("unsupported node type %T", n)
	}
}

func writeBranch(buf *bytes.Buffer, b *Branch) error {
	buf.WriteByte('{')
	first := true
	var err error
	b.Each(func(key string, child Node) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeString(buf, key)
		buf.WriteByte(':')
		err = writeNode(buf, child)
		return err == nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func writeLeaf(buf *bytes.Buffer, l *Leaf) error {
	buf.WriteByte('{')
	first := true
	field := func(key string) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeString(buf, key)
		buf.WriteByte(':')
	}

	written := make(map[string]bool, len(l.order)+3)
	emit := func(key string) error {
		if written[key] {
			return nil
		}
		switch {
		case key == fieldImg:
			field(key)
			writeString(buf, l.Img)
		case key == fieldText && l.HasText():
			field(key)
			writeString(buf, l.Text)
		case key == fieldPara && l.HasPara():
			field(key)
			writeString(buf, l.Para)
		default:
			child, ok := l.Extra(key)
			if !ok {
				return nil
			}
			field(key)
			if err := writeNode(buf, child); err != nil {
				return err
			}
		}
		written[key] = true
		return nil
	}

	for _, key := range l.order {
		if err := emit(key); err != nil {
			return err
		}
	}
	// Fields set after parsing, or on a leaf built in code.
	for _, key := range []string{fieldImg, fieldText, fieldPara} {
		if err := emit(key); err != nil {
			return err
		}
	}
	var err error
	l.EachExtra(func(key string, _ Node) bool {
		err = emit(key)
		return err == nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

// writeString writes s as a JSON string without HTML escaping, matching the
// way browsers serialize the same document.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
}
