package reconcile

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Dimensions is a measured pixel size.
type Dimensions struct {
	Width  int `json:"width" yaml:"width" toml:"width" mapstructure:"width"`
	Height int `json:"height" yaml:"height" toml:"height" mapstructure:"height"`
}

// DefaultExpected is the size every background illustration is drawn at.
var DefaultExpected = Dimensions{Width: 196, Height: 121}

func (d Dimensions) String() string {
	return fmt.Sprintf("%d×%d", d.Width, d.Height)
}

// DimensionClass is the outcome of comparing an asset to the expected size.
type DimensionClass int

const (
	// DimensionsPending means the asset has not been measured yet.
	DimensionsPending DimensionClass = iota
	DimensionsCorrect
	DimensionsIncorrect
)

func (c DimensionClass) String() string {
	switch c {
	case DimensionsCorrect:
		return "correct"
	case DimensionsIncorrect:
		return "incorrect"
	default:
		return "pending"
	}
}

// Classify compares measured against expected. ok=false means no
// measurement has arrived.
func Classify(measured Dimensions, ok bool, expected Dimensions) DimensionClass {
	if !ok {
		return DimensionsPending
	}
	if measured == expected {
		return DimensionsCorrect
	}
	return DimensionsIncorrect
}

// Measured is an asset name with its measured size.
type Measured struct {
	Name       string `json:"name" yaml:"name" toml:"name"`
	Dimensions `yaml:",inline"`
}

var prefixedNumber = regexp.MustCompile(`^([a-zA-Z]+)(\d+)\.svg$`)

// IncorrectDimensions returns the assets whose size differs from expected,
// ordered by alphabetic prefix then number (icon2 before icon10) when both
// names follow that pattern, and by the full names in collation order
// otherwise.
func IncorrectDimensions(assets []Measured, expected Dimensions) []Measured {
	var out []Measured
	for _, a := range assets {
		if a.Dimensions != expected {
			out = append(out, a)
		}
	}
	c := collate.New(language.Und)
	slices.SortStableFunc(out, func(a, b Measured) int {
		am := prefixedNumber.FindStringSubmatch(a.Name)
		bm := prefixedNumber.FindStringSubmatch(b.Name)
		if am != nil && bm != nil {
			if r := c.CompareString(am[1], bm[1]); r != 0 {
				return r
			}
			an, _ := strconv.Atoi(am[2])
			bn, _ := strconv.Atoi(bm[2])
			if an != bn {
				return cmp.Compare(an, bn)
			}
		} else if r := c.CompareString(a.Name, b.Name); r != 0 {
			return r
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
