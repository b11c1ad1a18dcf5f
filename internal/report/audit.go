package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/fulmenhq/svgaudit/internal/session"
	"github.com/fulmenhq/svgaudit/pkg/reconcile"
)

// Formatter renders session results in one output format.
type Formatter struct {
	format OutputFormat
	color  bool
	seq    reconcile.Sequence
}

// NewFormatter creates a formatter for format. Color only affects text.
func NewFormatter(format OutputFormat, color bool) *Formatter {
	return &Formatter{format: format, color: color, seq: reconcile.DefaultSequence()}
}

// SetSequence sets the sequence used to name the range in text summaries.
func (f *Formatter) SetSequence(seq reconcile.Sequence) {
	f.seq = seq
}

func (f *Formatter) paint(code, s string) string {
	if !f.color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func (f *Formatter) green(s string) string  { return f.paint("32", s) }
func (f *Formatter) yellow(s string) string { return f.paint("33", s) }
func (f *Formatter) red(s string) string    { return f.paint("31", s) }
func (f *Formatter) bold(s string) string   { return f.paint("1", s) }

// FormatReport renders an audit report.
func (f *Formatter) FormatReport(r session.Report) (string, error) {
	if f.format != FormatText {
		var sb strings.Builder
		if err := Encode(&sb, f.format, r); err != nil {
			return "", err
		}
		return sb.String(), nil
	}
	return f.reportText(r), nil
}

func (f *Formatter) reportText(r session.Report) string {
	seqRange := "none"
	if r.SequenceEnd > 0 {
		seqRange = fmt.Sprintf("%s … %s", f.seq.Name(f.seq.Start), f.seq.Name(r.SequenceEnd))
	}
	rows := [][2]string{
		{"Assets", fmt.Sprint(r.Assets)},
		{"Referenced", fmt.Sprint(r.Referenced)},
		{"Sequence", seqRange},
		{"Expected size", r.Expected.String()},
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, runewidth.FillRight(row[0], 14)+row[1])
	}

	var sb strings.Builder
	sb.WriteString(Box(lines))

	f.section(&sb, "Missing", r.MissingFile, f.red)
	f.section(&sb, "Unused", r.Unused, f.yellow)

	incorrect := make([]string, 0, len(r.Incorrect))
	width := 0
	for _, m := range r.Incorrect {
		if w := runewidth.StringWidth(m.Name); w > width {
			width = w
		}
	}
	for _, m := range r.Incorrect {
		incorrect = append(incorrect, runewidth.FillRight(m.Name, width)+"  "+m.Dimensions.String())
	}
	f.section(&sb, "Incorrect dimensions", incorrect, f.red)

	if n := len(r.Pending); n > 0 {
		fmt.Fprintf(&sb, "%s %d asset(s) not measured\n", f.yellow("Pending:"), n)
	}
	return sb.String()
}

func (f *Formatter) section(sb *strings.Builder, title string, items []string, paint func(string) string) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "%s %s\n", f.bold(title+":"), f.green("none"))
		return
	}
	fmt.Fprintf(sb, "%s\n", paint(fmt.Sprintf("%s (%d):", title, len(items))))
	for _, item := range items {
		sb.WriteString("  " + item + "\n")
	}
}

// Gallery is the structured form of a gallery listing.
type Gallery struct {
	Count  int                   `json:"count" yaml:"count" toml:"count"`
	Assets []session.GalleryItem `json:"assets" yaml:"assets" toml:"assets"`
}

// FormatGallery renders the visible assets of a gallery.
func (f *Formatter) FormatGallery(items []session.GalleryItem) (string, error) {
	if items == nil {
		items = []session.GalleryItem{}
	}
	if f.format != FormatText {
		var sb strings.Builder
		if err := Encode(&sb, f.format, Gallery{Count: len(items), Assets: items}); err != nil {
			return "", err
		}
		return sb.String(), nil
	}

	if len(items) == 0 {
		return "No assets match the current filter\n", nil
	}
	width := 0
	for _, item := range items {
		if w := runewidth.StringWidth(item.Name); w > width {
			width = w
		}
	}

	var sb strings.Builder
	for _, item := range items {
		status := item.Class
		switch item.Class {
		case reconcile.DimensionsCorrect.String():
			status = f.green(status)
		case reconcile.DimensionsIncorrect.String():
			status = f.red(status)
		default:
			status = f.yellow(status)
		}
		size := "?"
		if item.Dimensions != nil {
			size = item.Dimensions.String()
		}
		fmt.Fprintf(&sb, "%s  %s  %s\n", runewidth.FillRight(item.Name, width), size, status)
		if !item.Used {
			sb.WriteString("    (unused)\n")
		}
		for _, crumb := range item.Breadcrumbs {
			sb.WriteString("    " + crumb + "\n")
		}
	}
	fmt.Fprintf(&sb, "%d asset(s)\n", len(items))
	return sb.String(), nil
}
