package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/svgaudit/internal/session"
	"github.com/fulmenhq/svgaudit/pkg/reconcile"
	"github.com/fulmenhq/svgaudit/pkg/search"
	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

const treeJSON = `{
  "HR": {
    "Leave": {
      "Approved": {"img": "bg1.svg", "text": "Nothing to approve"},
      "Rejected": {"img": "bg3.svg", "para": "No rejected requests"}
    }
  },
  "Profile": {"Avatar": {"img": "bg3.svg", "hint": {"img": "bg5.svg"}}}
}`

func testSession(t *testing.T) *session.Session {
	t.Helper()
	root, err := usagetree.Parse([]byte(treeJSON))
	require.NoError(t, err)
	s := session.New(root, []string{"bg1.svg", "bg2.svg", "bg4.svg"}, session.Options{})
	_, err = s.ApplyDimensions("bg1.svg", reconcile.DefaultExpected)
	require.NoError(t, err)
	_, err = s.ApplyDimensions("bg2.svg", reconcile.Dimensions{Width: 200, Height: 120})
	require.NoError(t, err)
	return s
}

func TestBox(t *testing.T) {
	assert.Equal(t, "", Box(nil))

	out := Box([]string{"Assets 4", "人事 page  "})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "┌───────────┐", lines[0])
	for _, line := range lines {
		assert.Equal(t, runewidth.StringWidth(lines[0]), runewidth.StringWidth(line), line)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"bg12345.svg", 8, "bg123..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.value, tt.width))
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"toml", FormatTOML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeRejectsText(t *testing.T) {
	var sb strings.Builder
	assert.Error(t, Encode(&sb, FormatText, struct{}{}))
}

func TestFormatReportText(t *testing.T) {
	s := testSession(t)
	out, err := NewFormatter(FormatText, false).FormatReport(s.Report())
	require.NoError(t, err)

	assert.Contains(t, out, "Assets        3")
	assert.Contains(t, out, "Sequence      bg1 … bg4")
	assert.Contains(t, out, "Expected size 196×121")
	assert.Contains(t, out, "Missing (1):\n  bg3.svg\n")
	assert.Contains(t, out, "Unused (2):\n  bg2.svg\n  bg4.svg\n")
	assert.Contains(t, out, "Incorrect dimensions (1):\n  bg2.svg  200×120\n")
	assert.Contains(t, out, "Pending: 1 asset(s) not measured")
	assert.NotContains(t, out, "\x1b[")
}

func TestFormatReportClean(t *testing.T) {
	s := session.New(nil, nil, session.Options{})
	out, err := NewFormatter(FormatText, true).FormatReport(s.Report())
	require.NoError(t, err)
	assert.Contains(t, out, "Sequence      none")
	assert.Contains(t, out, "\x1b[32mnone\x1b[0m")
	assert.NotContains(t, out, "Pending")
}

func TestFormatReportStructured(t *testing.T) {
	r := testSession(t).Report()

	t.Run("json", func(t *testing.T) {
		out, err := NewFormatter(FormatJSON, true).FormatReport(r)
		require.NoError(t, err)
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, float64(3), got["assets"])
		assert.Equal(t, []interface{}{float64(3)}, got["missing"])
		assert.Equal(t, []interface{}{"bg2.svg", "bg4.svg"}, got["unused"])
		incorrect := got["incorrect_dimensions"].([]interface{})
		require.Len(t, incorrect, 1)
		assert.Equal(t, map[string]interface{}{"name": "bg2.svg", "width": float64(200), "height": float64(120)}, incorrect[0])
		assert.NotContains(t, out, "\x1b[")
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := NewFormatter(FormatYAML, false).FormatReport(r)
		require.NoError(t, err)
		var got session.Report
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, r, got)
	})

	t.Run("toml", func(t *testing.T) {
		out, err := NewFormatter(FormatTOML, false).FormatReport(r)
		require.NoError(t, err)
		assert.Contains(t, out, "assets = 3")
		assert.Contains(t, out, "sequence_end = 4")
		assert.Contains(t, out, "width = 200")
	})
}

func TestFormatGallery(t *testing.T) {
	s := testSession(t)
	items := s.Gallery(reconcile.NewFilter())

	out, err := NewFormatter(FormatText, false).FormatGallery(items)
	require.NoError(t, err)
	assert.Contains(t, out, "bg1.svg  196×121  correct\n    HR > Leave > Approved\n")
	assert.Contains(t, out, "bg2.svg  200×120  incorrect\n    (unused)\n")
	assert.Contains(t, out, "bg4.svg  ?  pending\n")
	assert.Contains(t, out, "3 asset(s)")

	out, err = NewFormatter(FormatText, false).FormatGallery(nil)
	require.NoError(t, err)
	assert.Equal(t, "No assets match the current filter\n", out)

	out, err = NewFormatter(FormatJSON, false).FormatGallery(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"assets":[]}`, out)

	out, err = NewFormatter(FormatJSON, false).FormatGallery(items[:1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1,"assets":[{"name":"bg1.svg","used":true,"dimensions_class":"correct",
		"dimensions":{"width":196,"height":121},"breadcrumbs":["HR > Leave > Approved"]}]}`, out)
}

func TestTreeViewRender(t *testing.T) {
	root, err := usagetree.Parse([]byte(treeJSON))
	require.NoError(t, err)

	out := TreeView{}.Render("image-data", root)
	assert.True(t, strings.HasPrefix(out, "image-data\n"))
	assert.Contains(t, out, "Approved [bg1.svg]")
	assert.Contains(t, out, "Avatar [bg3.svg]")
	assert.Contains(t, out, "hint [bg5.svg]")
	assert.NotContains(t, out, "text:")

	detailed := TreeView{Query: "approve", Marker: search.BracketMarker, Details: true}.Render("tree", root)
	assert.Contains(t, detailed, "[Approve]d [bg1.svg]")
	assert.Contains(t, detailed, "text: Nothing to [approve]")
	assert.Contains(t, detailed, "para: No rejected requests")

	assert.Equal(t, "empty", strings.TrimSpace(TreeView{}.Render("empty", nil)))
}

func TestTreeViewRenderLeaves(t *testing.T) {
	root, err := usagetree.Parse([]byte(treeJSON))
	require.NoError(t, err)
	leaves := usagetree.Leaves(search.Filter(root, "rejected"))

	out := TreeView{Query: "rejected", Marker: search.BracketMarker, Details: true}.RenderLeaves(leaves)
	assert.Equal(t, "HR > Leave > [Rejected]  bg3.svg\n    No [rejected] requests\n", out)
	assert.Equal(t, "No matches\n", TreeView{}.RenderLeaves(nil))

	records := LeafRecords(leaves)
	assert.Equal(t, []LeafRecord{{Path: "HR > Leave > Rejected", Img: "bg3.svg", Para: "No rejected requests"}}, records)
}

func TestUsageRecord(t *testing.T) {
	s := testSession(t)

	used := NewUsageRecord("bg3.svg", s.Usage("bg3.svg"))
	assert.True(t, used.Used)
	assert.Equal(t, "bg3.svg is used in 2 place(s):\n  HR > Leave > Rejected\n  Profile > Avatar\n", used.Text())

	unused := NewUsageRecord("bg2.svg", s.Usage("bg2.svg"))
	assert.False(t, unused.Used)
	assert.NotNil(t, unused.Paths)
	assert.Equal(t, "bg2.svg is not referenced\n", unused.Text())
}
