// Package layouttest builds synthetic pages for tests: monospaced text lines,
// positioned words and ruled tables.
package layouttest

import (
	"strings"

	"github.com/izvod-dev/izvod/internal/layout"
)

const (
	CharWidth  = 5.0
	FontSize   = 10.0
	LineHeight = 12.0
	Margin     = 20.0
	cellPad    = 4.0
	ruleWidth  = 0.5
)

// Builder lays text out top to bottom.
type Builder struct {
	page layout.Page
	font string
	next float64
}

// NewPage starts an empty A4 page.
func NewPage() *Builder {
	return &Builder{
		page: layout.Page{Number: 1, Width: 595, Height: 842},
		font: "Helvetica",
		next: Margin,
	}
}

// Font sets the font name for text added afterwards.
func (b *Builder) Font(name string) *Builder {
	b.font = name
	return b
}

// Line adds text at the left margin below the previous content.
func (b *Builder) Line(text string) *Builder {
	b.put(Margin, b.next, text)
	b.next += LineHeight
	return b
}

// Lines adds several lines.
func (b *Builder) Lines(lines ...string) *Builder {
	for _, l := range lines {
		b.Line(l)
	}
	return b
}

// At places text with its first glyph at (x, top). It does not advance the cursor.
func (b *Builder) At(x, top float64, text string) *Builder {
	b.put(x, top, text)
	return b
}

// Skip moves the cursor down by n lines.
func (b *Builder) Skip(n int) *Builder {
	b.next += float64(n) * LineHeight
	return b
}

// Table draws a bordered grid holding rows below the previous content.
func (b *Builder) Table(rows [][]string) *Builder {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	widths := make([]float64, cols)
	for j := range widths {
		longest := 2
		for _, r := range rows {
			if j < len(r) {
				for _, l := range strings.Split(r[j], "\n") {
					longest = max(longest, len([]rune(l)))
				}
			}
		}
		widths[j] = float64(longest)*CharWidth + 2*cellPad
	}

	left, top := Margin, b.next
	xs := []float64{left}
	for _, w := range widths {
		xs = append(xs, xs[len(xs)-1]+w)
	}
	right := xs[len(xs)-1]

	ys := []float64{top}
	for _, r := range rows {
		lines := 1
		for _, c := range r {
			lines = max(lines, len(strings.Split(c, "\n")))
		}
		rowTop := ys[len(ys)-1]
		for j, c := range r {
			if c == "" {
				continue
			}
			for k, l := range strings.Split(c, "\n") {
				b.put(xs[j]+cellPad, rowTop+cellPad/2+float64(k)*LineHeight, l)
			}
		}
		ys = append(ys, rowTop+float64(lines)*LineHeight+cellPad)
	}
	bottom := ys[len(ys)-1]

	for _, x := range xs {
		b.page.Rulings = append(b.page.Rulings, layout.Ruling{X0: x - ruleWidth/2, Top: top, X1: x + ruleWidth/2, Bottom: bottom})
	}
	for _, y := range ys {
		b.page.Rulings = append(b.page.Rulings, layout.Ruling{X0: left, Top: y - ruleWidth/2, X1: right, Bottom: y + ruleWidth/2})
	}
	b.next = bottom + LineHeight
	return b
}

// Page returns the built page.
func (b *Builder) Page() layout.Page { return b.page }

// Doc wraps pages into a document, numbering them from 1.
func Doc(pages ...layout.Page) *layout.Document {
	for i := range pages {
		pages[i].Number = i + 1
	}
	return &layout.Document{Pages: pages}
}

// TextDoc is a single-page document holding lines.
func TextDoc(lines ...string) *layout.Document {
	return Doc(NewPage().Lines(lines...).Page())
}

func (b *Builder) put(x, top float64, text string) {
	for i, r := range []rune(text) {
		b.page.Glyphs = append(b.page.Glyphs, layout.Glyph{
			X:     x + float64(i)*CharWidth,
			Top:   top,
			Width: CharWidth,
			Size:  FontSize,
			Text:  string(r),
			Font:  b.font,
		})
	}
}
