// Package snippet renders the TypeScript property declarations a page
// component needs to show its no-data illustration: the module, the page
// and every status the usage tree defines for that page.
package snippet

import (
	"strconv"
	"strings"

	"github.com/aymerick/raymond"

	"github.com/fulmenhq/svgaudit/pkg/usagetree"
)

const declarations = `moduleName: any = '{{{quote module}}}';
pageName: any = '{{{quote page}}}';
{{#each statuses}}{{{name}}}: any = '{{{quote value}}}';
{{/each}}`

var tpl = func() *raymond.Template {
	t := raymond.MustParse(declarations)
	t.RegisterHelper("quote", quote)
	return t
}()

// quote escapes s for a single-quoted TypeScript string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return r.Replace(s)
}

// Declaration is one status property.
type Declaration struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Snippet holds the values that go into the declarations.
type Snippet struct {
	Module   string        `json:"module"`
	Page     string        `json:"page"`
	Statuses []Declaration `json:"statuses"`
}

// Build derives the snippet for the leaf at path, where path[0] is the
// module, path[1] the page and path[2] the current status. The statuses are
// the keys of the page's branch in tree order; when the page is not a
// branch the current status is used alone.
func Build(root *usagetree.Branch, path usagetree.Path) Snippet {
	var s Snippet
	var current string
	if len(path) > 0 {
		s.Module = path[0]
	}
	if len(path) > 1 {
		s.Page = path[1]
	}
	if len(path) > 2 {
		current = path[2]
	}

	var statuses []string
	if len(path) > 1 {
		if n, err := usagetree.Resolve(root, path[:2]); err == nil {
			if page, ok := n.(*usagetree.Branch); ok {
				statuses = page.Keys()
			}
		}
	}
	if len(statuses) == 0 {
		statuses = []string{current}
	}

	for i, status := range statuses {
		name := "noDataStatus"
		if i > 0 {
			name += strconv.Itoa(i)
		}
		s.Statuses = append(s.Statuses, Declaration{Name: name, Value: status})
	}
	return s
}

// Render executes the declarations template. The output has no trailing
// newline.
func (s Snippet) Render() (string, error) {
	statuses := make([]map[string]string, 0, len(s.Statuses))
	for _, d := range s.Statuses {
		statuses = append(statuses, map[string]string{"name": d.Name, "value": d.Value})
	}
	ctx := map[string]interface{}{
		"module":   s.Module,
		"page":     s.Page,
		"statuses": statuses,
	}
	out, err := tpl.Exec(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// Render builds and renders the snippet for path.
func Render(root *usagetree.Branch, path usagetree.Path) (string, error) {
	return Build(root, path).Render()
}
