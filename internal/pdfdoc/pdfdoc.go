// Package pdfdoc turns PDF bytes into positioned glyphs and rulings.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/izvod-dev/izvod/internal/layout"
)

// ErrEmpty is returned for documents without any readable page.
var ErrEmpty = errors.New("document has no pages")

// a4 is assumed when a page does not declare its media box.
var a4 = box{0, 0, 595, 842}

// Load decodes every page of data. The underlying reader panics on some
// malformed streams; those panics are returned as errors.
func Load(data []byte) (doc *layout.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("reading PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	doc = &layout.Document{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		doc.Pages = append(doc.Pages, readPage(i, p))
	}
	if len(doc.Pages) == 0 {
		return nil, ErrEmpty
	}
	return doc, nil
}

type box struct{ x0, y0, x1, y1 float64 }

// top converts a PDF y coordinate (origin bottom-left) to a distance from the
// top edge.
func (b box) top(y float64) float64 { return b.y1 - y }

func (b box) left(x float64) float64 { return x - b.x0 }

func readPage(num int, p pdf.Page) layout.Page {
	mb := mediaBox(p.V)
	coded := codedFonts(p)

	content := p.Content()
	out := layout.Page{Number: num, Width: mb.x1 - mb.x0, Height: mb.y1 - mb.y0}
	for _, t := range content.Text {
		if _, ok := coded.byBase[t.Font]; ok {
			continue
		}
		out.Glyphs = append(out.Glyphs, layout.Glyph{
			X:     mb.left(t.X),
			Top:   mb.top(t.Y) - t.FontSize,
			Width: t.W,
			Size:  t.FontSize,
			Text:  t.S,
			Font:  t.Font,
		})
	}
	if len(coded.byResource) > 0 {
		for _, g := range interpretCoded(p.V.Key("Contents"), coded) {
			g.X = mb.left(g.X)
			g.Top = mb.top(g.Top) - g.Size
			out.Glyphs = append(out.Glyphs, g)
		}
	}
	for _, r := range content.Rect {
		x0, x1 := min(r.Min.X, r.Max.X), max(r.Min.X, r.Max.X)
		y0, y1 := min(r.Min.Y, r.Max.Y), max(r.Min.Y, r.Max.Y)
		out.Rulings = append(out.Rulings, layout.Ruling{
			X0:     mb.left(x0),
			X1:     mb.left(x1),
			Top:    mb.top(y1),
			Bottom: mb.top(y0),
		})
	}
	return out
}

// mediaBox reads the page's MediaBox, following inheritance from parent nodes.
func mediaBox(v pdf.Value) box {
	for depth := 0; depth < 8 && !v.IsNull(); depth++ {
		mb := v.Key("MediaBox")
		if mb.Len() == 4 {
			return box{mb.Index(0).Float64(), mb.Index(1).Float64(), mb.Index(2).Float64(), mb.Index(3).Float64()}
		}
		v = v.Key("Parent")
	}
	return a4
}

func baseName(f string) string {
	if i := strings.Index(f, "+"); i >= 0 {
		return f[i+1:]
	}
	return f
}
