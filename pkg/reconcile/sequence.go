package reconcile

import (
	"path"
	"strconv"
	"strings"
)

// MaxMissing caps how many numbers Missing reports, so one stray bg50000000.svg
// cannot make a report enumerate millions of gaps.
const MaxMissing = 10000

// Sequence describes numbered assets named Prefix<N>Ext, such as bg12.svg.
type Sequence struct {
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
	Ext    string `json:"ext" yaml:"ext" mapstructure:"ext"`
	Start  int    `json:"start" yaml:"start" mapstructure:"start"`
}

// DefaultSequence matches bg1.svg, bg2.svg, ...
func DefaultSequence() Sequence {
	return Sequence{Prefix: "bg", Ext: ".svg", Start: 1}
}

// Number returns N when the base name of name is exactly Prefix, one or more
// digits, Ext. Directories are ignored, so sub/bg3.svg is 3.
func (s Sequence) Number(name string) (int, bool) {
	name = path.Base(name)
	if !strings.HasPrefix(name, s.Prefix) || !strings.HasSuffix(name, s.Ext) {
		return 0, false
	}
	digits := name[len(s.Prefix):]
	if len(digits) < len(s.Ext) {
		return 0, false
	}
	digits = digits[:len(digits)-len(s.Ext)]
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Name renders the compact form of N, e.g. bg7.
func (s Sequence) Name(n int) string {
	return s.Prefix + strconv.Itoa(n)
}

// FileName renders the full filename of N, e.g. bg7.svg.
func (s Sequence) FileName(n int) string {
	return s.Name(n) + s.Ext
}

// End returns the highest number among names, or 0 when none is numbered.
func (s Sequence) End(names []string) int {
	end := 0
	for _, name := range names {
		if n, ok := s.Number(name); ok && n > end {
			end = n
		}
	}
	return end
}

// Missing returns, in ascending order, every number in [Start, End(names)]
// with no matching file, stopping after MaxMissing numbers. The range is
// derived from the files themselves, so a catalog without numbered files has
// nothing missing.
func (s Sequence) Missing(names []string) []int {
	present := make(map[int]bool)
	end := 0
	for _, name := range names {
		if n, ok := s.Number(name); ok {
			present[n] = true
			if n > end {
				end = n
			}
		}
	}
	if end < s.Start {
		return nil
	}
	var missing []int
	for i := s.Start; len(missing) < MaxMissing; i++ {
		if !present[i] {
			missing = append(missing, i)
		}
		if i == end {
			break
		}
	}
	return missing
}
