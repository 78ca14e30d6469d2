package pdfdoc

import (
	"github.com/ledongthuc/pdf"

	"github.com/izvod-dev/izvod/internal/layout"
)

// cidFont is a two-byte font without a ToUnicode map. Its glyphs can only be
// reported by code.
type cidFont struct {
	base         string
	defaultWidth float64
	widths       map[int]float64
}

func (f *cidFont) width(code int) float64 {
	if w, ok := f.widths[code]; ok {
		return w
	}
	return f.defaultWidth
}

type fontSet struct {
	byResource map[string]*cidFont
	byBase     map[string]*cidFont
	simple     map[string]pdf.Font
}

func codedFonts(p pdf.Page) fontSet {
	set := fontSet{
		byResource: map[string]*cidFont{},
		byBase:     map[string]*cidFont{},
		simple:     map[string]pdf.Font{},
	}
	for _, name := range p.Fonts() {
		f := p.Font(name)
		enc := f.V.Key("Encoding")
		identity := enc.Kind() == pdf.Name && (enc.Name() == "Identity-H" || enc.Name() == "Identity-V")
		if !identity || !f.V.Key("ToUnicode").IsNull() {
			set.simple[name] = f
			continue
		}
		cf := &cidFont{base: baseName(f.BaseFont()), defaultWidth: 1000, widths: map[int]float64{}}
		readWidths(f.V.Key("DescendantFonts").Index(0), cf)
		set.byResource[name] = cf
		set.byBase[cf.base] = cf
	}
	return set
}

// readWidths parses a CIDFont W array: "c [w1 w2 ...]" and "cfirst clast w".
func readWidths(desc pdf.Value, cf *cidFont) {
	if dw := desc.Key("DW"); dw.Kind() == pdf.Integer || dw.Kind() == pdf.Real {
		cf.defaultWidth = dw.Float64()
	}
	w := desc.Key("W")
	for i := 0; i+1 < w.Len(); {
		first := int(w.Index(i).Int64())
		next := w.Index(i + 1)
		if next.Kind() == pdf.Array {
			for j := 0; j < next.Len(); j++ {
				cf.widths[first+j] = next.Index(j).Float64()
			}
			i += 2
			continue
		}
		if i+2 >= w.Len() {
			return
		}
		last := int(next.Int64())
		width := w.Index(i + 2).Float64()
		for c := first; c <= last && c-first < 1<<16; c++ {
			cf.widths[c] = width
		}
		i += 3
	}
}

type matrix [3][3]float64

var identity = matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func (x matrix) mul(y matrix) matrix {
	var z matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				z[i][j] += x[i][k] * y[k][j]
			}
		}
	}
	return z
}

func translate(tx, ty float64) matrix {
	return matrix{{1, 0, 0}, {0, 1, 0}, {tx, ty, 1}}
}

// textState is the subset of the PDF graphics and text state that positions glyphs.
type textState struct {
	ctm, tm, tlm matrix
	stack        []matrix

	font    string
	size    float64
	charSp  float64
	wordSp  float64
	scale   float64
	leading float64
	rise    float64
}

// interpretCoded walks the content stream and reports glyphs set in coded
// fonts. Glyph Top holds the PDF y coordinate; callers convert it.
func interpretCoded(contents pdf.Value, fonts fontSet) []layout.Glyph {
	st := &textState{ctm: identity, tm: identity, tlm: identity, scale: 1}
	var out []layout.Glyph

	show := func(raw string) {
		if cf, ok := fonts.byResource[st.font]; ok {
			for i := 0; i+1 < len(raw); i += 2 {
				code := int(raw[i])<<8 | int(raw[i+1])
				out = append(out, st.glyph(cf, code))
				st.advance(cf.width(code), false)
			}
			return
		}
		f, ok := fonts.simple[st.font]
		for i := 0; i < len(raw); i++ {
			var w float64
			if ok {
				w = f.Width(int(raw[i]))
			}
			st.advance(w, raw[i] == ' ')
		}
	}

	do := func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		num := func(i int) float64 {
			if i < len(args) {
				return args[i].Float64()
			}
			return 0
		}
		switch op {
		case "q":
			st.stack = append(st.stack, st.ctm)
		case "Q":
			if k := len(st.stack); k > 0 {
				st.ctm = st.stack[k-1]
				st.stack = st.stack[:k-1]
			}
		case "cm":
			if n == 6 {
				m := matrix{{num(0), num(1), 0}, {num(2), num(3), 0}, {num(4), num(5), 1}}
				st.ctm = m.mul(st.ctm)
			}
		case "BT":
			st.tm, st.tlm = identity, identity
		case "Tf":
			if n == 2 {
				st.font = args[0].Name()
				st.size = num(1)
			}
		case "Tc":
			st.charSp = num(0)
		case "Tw":
			st.wordSp = num(0)
		case "Tz":
			st.scale = num(0) / 100
		case "TL":
			st.leading = num(0)
		case "Ts":
			st.rise = num(0)
		case "Td":
			st.moveLine(num(0), num(1))
		case "TD":
			st.leading = -num(1)
			st.moveLine(num(0), num(1))
		case "T*":
			st.moveLine(0, -st.leading)
		case "Tm":
			if n == 6 {
				st.tm = matrix{{num(0), num(1), 0}, {num(2), num(3), 0}, {num(4), num(5), 1}}
				st.tlm = st.tm
			}
		case "Tj":
			if n == 1 {
				show(args[0].RawString())
			}
		case "'":
			st.moveLine(0, -st.leading)
			if n == 1 {
				show(args[0].RawString())
			}
		case "\"":
			if n == 3 {
				st.wordSp, st.charSp = num(0), num(1)
				st.moveLine(0, -st.leading)
				show(args[2].RawString())
			}
		case "TJ":
			if n != 1 {
				return
			}
			arr := args[0]
			for i := 0; i < arr.Len(); i++ {
				v := arr.Index(i)
				if v.Kind() == pdf.String {
					show(v.RawString())
					continue
				}
				tx := -v.Float64() / 1000 * st.size * st.scale
				st.tm = translate(tx, 0).mul(st.tm)
			}
		}
	}

	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			pdf.Interpret(contents.Index(i), do)
		}
	} else {
		pdf.Interpret(contents, do)
	}
	return out
}

func (st *textState) moveLine(tx, ty float64) {
	st.tlm = translate(tx, ty).mul(st.tlm)
	st.tm = st.tlm
}

func (st *textState) render() matrix {
	return matrix{{st.size * st.scale, 0, 0}, {0, st.size, 0}, {0, st.rise, 1}}.mul(st.tm).mul(st.ctm)
}

func (st *textState) glyph(cf *cidFont, code int) layout.Glyph {
	trm := st.render()
	return layout.Glyph{
		X:     trm[2][0],
		Top:   trm[2][1],
		Width: cf.width(code) / 1000 * trm[0][0],
		Size:  trm[1][1],
		Font:  cf.base,
		CID:   code,
	}
}

// advance moves the text matrix past a glyph of width w (in thousandths of
// text space).
func (st *textState) advance(w float64, space bool) {
	tx := w/1000*st.size + st.charSp
	if space {
		tx += st.wordSp
	}
	st.tm = translate(tx*st.scale, 0).mul(st.tm)
}
