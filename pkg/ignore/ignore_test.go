package ignore

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	fsys := memfs.New()
	files := map[string]string{
		"img/bg1.svg":            "<svg/>",
		"img/.gitignore":         "*.tmp.svg\ndrafts/\n",
		"img/.svgauditignore":    "# local overrides\n\nlegacy/\n!drafts/\n",
		"img/icons/.gitignore":   "old-*.svg\n",
		"img/icons/old-home.svg": "<svg/>",
	}
	for name, content := range files {
		require.NoError(t, util.WriteFile(fsys, name, []byte(content), 0o644))
	}

	m, err := Load(fsys, "img", "*.bak.svg")
	require.NoError(t, err)

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"bg1.svg", false, false},
		{"bg1.tmp.svg", false, true},
		{"legacy", true, true},
		{"legacy/bg9.svg", false, true},
		{"drafts", true, false},
		{"icons/old-home.svg", false, true},
		{"old-home.svg", false, false},
		{"bg2.bak.svg", false, true},
		{".git", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.path, tt.isDir))
		})
	}
}

func TestLoadMissingRoot(t *testing.T) {
	m, err := Load(memfs.New(), "nowhere", "*.bak.svg")
	require.NoError(t, err)
	assert.Equal(t, len(defaultPatterns)+1, m.Len())
	assert.True(t, m.Match("a.bak.svg", false))
	assert.False(t, m.Match("a.svg", false))
}

func TestNilMatcher(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Match("bg1.svg", false))
	assert.Zero(t, m.Len())
}

func TestSplitPath(t *testing.T) {
	assert.Nil(t, splitPath("."))
	assert.Equal(t, []string{"a", "b.svg"}, splitPath("/a/./b.svg"))
}
