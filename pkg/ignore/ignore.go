// Package ignore provides gitignore-style filtering for asset discovery
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/fulmenhq/svgaudit/pkg/logger"
)

// FileName is the folder-level ignore file read next to the assets.
const FileName = ".svgauditignore"

var defaultPatterns = []string{".git/", "node_modules/"}

// Matcher decides whether a path under the image folder is excluded
// from discovery. A nil Matcher excludes nothing.
type Matcher struct {
	matcher gitignore.Matcher
	count   int
}

// Load builds the matcher for root on fsys. Later layers take precedence:
//  1. built-in defaults
//  2. .gitignore files anywhere under root
//  3. root/.svgauditignore
//  4. extra, usually the exclude config key
//
// A missing root yields a matcher with only the defaults and extra.
func Load(fsys billy.Filesystem, root string, extra ...string) (*Matcher, error) {
	var patterns []gitignore.Pattern
	for _, p := range defaultPatterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	sub, err := fsys.Chroot(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", root, err)
	}

	gitPatterns, err := gitignore.ReadPatterns(sub, nil)
	switch {
	case err == nil:
		patterns = append(patterns, gitPatterns...)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read .gitignore files under %s: %w", root, err)
	}

	data, err := util.ReadFile(sub, FileName)
	switch {
	case err == nil:
		for _, line := range parseLines(string(data)) {
			patterns = append(patterns, gitignore.ParsePattern(line, nil))
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	for _, line := range parseLines(strings.Join(extra, "\n")) {
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}

	logger.Debug("Loaded ignore patterns", logger.String("root", root), logger.Int("count", len(patterns)))
	return &Matcher{matcher: gitignore.NewMatcher(patterns), count: len(patterns)}, nil
}

// parseLines drops blank lines and # comments.
func parseLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Len reports how many patterns the matcher holds.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return m.count
}

// Match reports whether rel, a slash-separated path relative to the
// image folder, is excluded.
func (m *Matcher) Match(rel string, isDir bool) bool {
	if m == nil {
		return false
	}
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

func splitPath(p string) []string {
	if p == "" || p == "." {
		return nil
	}
	raw := strings.Split(strings.TrimPrefix(p, "/"), "/")
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}
