// Package layout provides positional text primitives over decoded pages:
// glyphs, words, lines and tables. Coordinates grow right and down from the
// top-left corner of the page.
package layout

import (
	"sort"
	"strings"
)

// Glyph is one rendered character as returned by a document backend.
type Glyph struct {
	X     float64
	Top   float64
	Width float64
	Size  float64
	Text  string
	Font  string
	// CID is the font-internal code for glyphs the backend could not map to
	// Unicode. Zero when Text is meaningful.
	CID int
}

// Bold reports whether the glyph is set in a bold face.
func (g Glyph) Bold() bool { return IsBoldFont(g.Font) }

// IsBoldFont reports whether a font name denotes a bold weight.
func IsBoldFont(name string) bool {
	return strings.Contains(name, "Bold") || strings.Contains(name, "bold")
}

// Ruling is a drawn rectangle; thin ones are table borders.
type Ruling struct {
	X0, Top, X1, Bottom float64
}

// Page is one decoded page.
type Page struct {
	Number  int
	Width   float64
	Height  float64
	Glyphs  []Glyph
	Rulings []Ruling
}

// Document is an ordered list of pages.
type Document struct {
	Pages []Page
}

// Word is a run of adjacent glyphs on one line.
type Word struct {
	X      float64
	Right  float64
	Top    float64
	Bottom float64
	Text   string
	Font   string
	Bold   bool
}

// Line is a row of words sorted left to right.
type Line struct {
	Top   float64
	Words []Word
}

// Text joins the line's words with single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// Options tune word assembly and line clustering.
type Options struct {
	// XTolerance is the largest horizontal gap inside one word.
	XTolerance float64
	// YTolerance is the largest vertical offset inside one line.
	YTolerance float64
	// MinWidth is a floor for glyph widths when measuring gaps.
	MinWidth float64
	// KeepBlanks keeps whitespace glyphs inside words instead of splitting on them.
	KeepBlanks bool
}

// DefaultOptions match the common text-extraction settings.
var DefaultOptions = Options{XTolerance: 3, YTolerance: 3}

// Words assembles the page's glyphs into words, line by line.
func (p Page) Words(opt Options) []Word {
	return AssembleWords(p.Glyphs, opt)
}

// Lines groups the page's words into lines.
func (p Page) Lines(opt Options) []Line {
	return GroupLines(p.Words(opt), opt.YTolerance)
}

// Text renders the page as newline-separated lines.
func (p Page) Text(opt Options) string {
	return LinesText(p.Lines(opt))
}

// Text renders every page, pages separated by a newline.
func (d Document) Text(opt Options) string {
	pages := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		pages = append(pages, p.Text(opt))
	}
	return strings.Join(pages, "\n")
}

// LinesText joins line texts with newlines.
func LinesText(lines []Line) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text()
	}
	return strings.Join(out, "\n")
}

// AssembleWords clusters glyphs into lines by their top coordinate and cuts
// each line into words wherever the gap between the end of one glyph and the
// start of the next exceeds opt.XTolerance.
func AssembleWords(glyphs []Glyph, opt Options) []Word {
	var words []Word
	for _, row := range cluster(glyphs, func(g Glyph) float64 { return g.Top }, opt.YTolerance) {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		top := row[0].Top

		var cur *Word
		var sb strings.Builder
		var end float64
		flush := func() {
			if cur == nil {
				return
			}
			cur.Text = strings.TrimSpace(sb.String())
			if cur.Text != "" {
				words = append(words, *cur)
			}
			cur = nil
			sb.Reset()
		}

		for _, g := range row {
			blank := strings.TrimSpace(g.Text) == ""
			if blank && !opt.KeepBlanks {
				flush()
				continue
			}
			if cur != nil && g.X-end > opt.XTolerance {
				flush()
			}
			if cur == nil {
				cur = &Word{X: g.X, Top: top, Font: g.Font, Bold: g.Bold()}
			}
			sb.WriteString(g.Text)
			end = g.X + max(g.Width, opt.MinWidth)
			cur.Right = end
			cur.Bottom = max(cur.Bottom, g.Top+g.Size)
		}
		flush()
	}
	return words
}

// GroupLines clusters words whose top coordinates lie within tolerance of the
// first word of the line.
func GroupLines(words []Word, tolerance float64) []Line {
	rows := cluster(words, func(w Word) float64 { return w.Top }, tolerance)
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		lines = append(lines, Line{Top: row[0].Top, Words: row})
	}
	return lines
}

// cluster sorts items by key and starts a new group whenever an item lies more
// than tolerance below the first item of the current group.
func cluster[T any](items []T, key func(T) float64, tolerance float64) [][]T {
	if len(items) == 0 {
		return nil
	}
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return key(sorted[i]) < key(sorted[j]) })

	var groups [][]T
	anchor := key(sorted[0])
	start := 0
	for i := 1; i < len(sorted); i++ {
		if key(sorted[i])-anchor > tolerance {
			groups = append(groups, sorted[start:i:i])
			start = i
			anchor = key(sorted[i])
		}
	}
	return append(groups, sorted[start:])
}
