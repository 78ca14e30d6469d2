// Package glyph decodes fonts that carry a private character encoding: the
// rendered glyphs hold font-internal codes instead of Unicode text.
package glyph

import (
	"regexp"
	"strconv"

	"github.com/izvod-dev/izvod/internal/layout"
)

// Table maps font-internal codes to characters.
type Table map[int]string

// Decoder holds one table per font weight.
type Decoder struct {
	Regular Table
	Bold    Table
}

// cidText is the textual form some extractors emit for unmapped codes.
var cidText = regexp.MustCompile(`^\(cid:(\d+)\)$`)

// Code returns the font-internal code carried by g, if any.
func Code(g layout.Glyph) (int, bool) {
	if g.CID > 0 {
		return g.CID, true
	}
	if m := cidText.FindStringSubmatch(g.Text); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	return 0, false
}

// Char decodes a single glyph. Glyphs without a code keep their text; coded
// glyphs absent from the table of their weight decode to "".
func (d *Decoder) Char(g layout.Glyph) string {
	code, ok := Code(g)
	if !ok {
		return g.Text
	}
	table := d.Regular
	if g.Bold() {
		table = d.Bold
	}
	return table[code]
}

// Decode rewrites glyph texts and drops glyphs that decode to nothing.
// Positions and widths are kept so words can be reassembled afterwards.
func (d *Decoder) Decode(glyphs []layout.Glyph) []layout.Glyph {
	out := make([]layout.Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		ch := d.Char(g)
		if ch == "" {
			continue
		}
		g.Text = ch
		g.CID = 0
		out = append(out, g)
	}
	return out
}

// Page returns a copy of p with decoded glyphs.
func (d *Decoder) Page(p layout.Page) layout.Page {
	p.Glyphs = d.Decode(p.Glyphs)
	return p
}
