package report

import (
	"fmt"
	"strings"

	"github.com/disiqueira/gotree/v3"

	"github.com/fulmenhq/svgaudit/pkg/search"
	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

// TreeView draws a usage tree with the terms of query highlighted.
type TreeView struct {
	Query  string
	Marker search.Marker
	// Details adds text and para lines under each leaf.
	Details bool
}

func (v TreeView) mark(s string) string {
	return search.Highlight(s, v.Query, v.Marker)
}

// Render draws root under rootLabel.
func (v TreeView) Render(rootLabel string, root *usagetree.Branch) string {
	t := gotree.New(rootLabel)
	if root != nil {
		v.addBranch(t, root)
	}
	return t.Print()
}

func (v TreeView) addBranch(t gotree.Tree, b *usagetree.Branch) {
	b.Each(func(key string, n usagetree.Node) bool {
		v.addNode(t, key, n)
		return true
	})
}

func (v TreeView) addNode(t gotree.Tree, key string, n usagetree.Node) {
	switch node := n.(type) {
	case *usagetree.Branch:
		v.addBranch(t.Add(v.mark(key)), node)
	case *usagetree.Leaf:
		child := t.Add(fmt.Sprintf("%s [%s]", v.mark(key), v.mark(node.Img)))
		if v.Details {
			if node.Text != "" {
				child.Add("text: " + v.mark(node.Text))
			}
			if node.Para != "" {
				child.Add("para: " + v.mark(node.Para))
			}
		}
		node.EachExtra(func(k string, extra usagetree.Node) bool {
			v.addNode(child, k, extra)
			return true
		})
	}
}

// RenderLeaves lists every leaf as one line: its path and image, followed
// by indented text and para lines when Details is set.
func (v TreeView) RenderLeaves(entries []usagetree.Entry) string {
	if len(entries) == 0 {
		return "No matches\n"
	}
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s  %s\n", v.mark(e.Path.String()), v.mark(e.Leaf.Img))
		if v.Details {
			if e.Leaf.Text != "" {
				sb.WriteString("    " + v.mark(e.Leaf.Text) + "\n")
			}
			if e.Leaf.Para != "" {
				sb.WriteString("    " + v.mark(e.Leaf.Para) + "\n")
			}
		}
	}
	return sb.String()
}

// LeafRecord is the structured form of a listed leaf.
type LeafRecord struct {
	Path string `json:"path" yaml:"path" toml:"path"`
	Img  string `json:"img" yaml:"img" toml:"img"`
	Text string `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Para string `json:"para,omitempty" yaml:"para,omitempty" toml:"para,omitempty"`
}

// LeafRecords converts entries for structured output.
func LeafRecords(entries []usagetree.Entry) []LeafRecord {
	out := make([]LeafRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeafRecord{Path: e.Path.String(), Img: e.Leaf.Img, Text: e.Leaf.Text, Para: e.Leaf.Para})
	}
	return out
}

// UsageRecord is the structured form of a usage lookup.
type UsageRecord struct {
	Name  string   `json:"name" yaml:"name" toml:"name"`
	Used  bool     `json:"used" yaml:"used" toml:"used"`
	Paths []string `json:"paths" yaml:"paths" toml:"paths"`
}

// NewUsageRecord collects the paths that reference name.
func NewUsageRecord(name string, paths []usagetree.Path) UsageRecord {
	r := UsageRecord{Name: name, Used: len(paths) > 0, Paths: make([]string, 0, len(paths))}
	for _, p := range paths {
		r.Paths = append(r.Paths, p.String())
	}
	return r
}

// Text renders the record as breadcrumbs, one per line.
func (r UsageRecord) Text() string {
	if !r.Used {
		return fmt.Sprintf("%s is not referenced\n", r.Name)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is used in %d place(s):\n", r.Name, len(r.Paths))
	for _, p := range r.Paths {
		sb.WriteString("  " + p + "\n")
	}
	return sb.String()
}
