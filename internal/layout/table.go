package layout

import (
	"sort"
	"strings"
)

// Table is a list of rows; each row is a list of cell texts. A cell spanning
// several physical lines keeps them separated by "\n".
type Table [][]string

// Cell returns row[i] or "" when the row is shorter.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

const (
	// rulingThickness separates border strokes from filled boxes.
	rulingThickness = 2.0
	// snapTolerance merges border positions that differ by sub-pixel offsets.
	snapTolerance = 3.0
	// cellLineTolerance groups words inside one cell into physical lines.
	cellLineTolerance = 3.0
)

type edge struct {
	vertical bool
	pos      float64 // x for vertical edges, y for horizontal ones
	from, to float64 // extent along the other axis
}

func (e edge) box() (x0, top, x1, bottom float64) {
	if e.vertical {
		return e.pos, e.from, e.pos, e.to
	}
	return e.from, e.pos, e.to, e.pos
}

func (e edge) touches(o edge) bool {
	ax0, at, ax1, ab := e.box()
	bx0, bt, bx1, bb := o.box()
	return ax0-snapTolerance <= bx1 && bx0-snapTolerance <= ax1 &&
		at-snapTolerance <= bb && bt-snapTolerance <= ab
}

// Tables finds ruled tables on the page. Rulings that touch each other form
// one table; the distinct border positions of a table define its grid.
func (p Page) Tables() []Table {
	edges := edgesOf(p.Rulings)
	if len(edges) == 0 {
		return nil
	}
	var tables []Table
	for _, group := range connected(edges) {
		xs, ys := gridLines(group)
		if len(xs) < 2 || len(ys) < 2 {
			continue
		}
		if t := fillGrid(xs, ys, p.Glyphs); len(t) > 0 {
			tables = append(tables, t)
		}
	}
	return tables
}

// Tables collects the ruled tables of every page in order.
func (d Document) Tables() []Table {
	var out []Table
	for _, p := range d.Pages {
		out = append(out, p.Tables()...)
	}
	return out
}

func edgesOf(rulings []Ruling) []edge {
	var edges []edge
	for _, r := range rulings {
		w, h := r.X1-r.X0, r.Bottom-r.Top
		switch {
		case w <= rulingThickness && h > rulingThickness:
			edges = append(edges, edge{vertical: true, pos: (r.X0 + r.X1) / 2, from: r.Top, to: r.Bottom})
		case h <= rulingThickness && w > rulingThickness:
			edges = append(edges, edge{pos: (r.Top + r.Bottom) / 2, from: r.X0, to: r.X1})
		case w > rulingThickness && h > rulingThickness:
			edges = append(edges,
				edge{pos: r.Top, from: r.X0, to: r.X1},
				edge{pos: r.Bottom, from: r.X0, to: r.X1},
				edge{vertical: true, pos: r.X0, from: r.Top, to: r.Bottom},
				edge{vertical: true, pos: r.X1, from: r.Top, to: r.Bottom},
			)
		}
	}
	return edges
}

// connected partitions edges into groups of mutually reachable edges,
// ordered top to bottom.
func connected(edges []edge) [][]edge {
	parent := make([]int, len(edges))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			if edges[i].touches(edges[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	index := map[int]int{}
	var groups [][]edge
	for i, e := range edges {
		root := find(i)
		g, ok := index[root]
		if !ok {
			g = len(groups)
			index[root] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], e)
	}

	top := func(g []edge) float64 {
		t := g[0].from
		for _, e := range g {
			_, et, _, _ := e.box()
			t = min(t, et)
		}
		return t
	}
	sort.SliceStable(groups, func(i, j int) bool { return top(groups[i]) < top(groups[j]) })
	return groups
}

func gridLines(group []edge) (xs, ys []float64) {
	for _, e := range group {
		if e.vertical {
			xs = append(xs, e.pos)
		} else {
			ys = append(ys, e.pos)
		}
	}
	return snap(xs), snap(ys)
}

func snap(vals []float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	sort.Float64s(vals)
	out := []float64{vals[0]}
	for _, v := range vals[1:] {
		if v-out[len(out)-1] > snapTolerance {
			out = append(out, v)
		}
	}
	return out
}

func fillGrid(xs, ys []float64, glyphs []Glyph) Table {
	cells := make([][][]Glyph, len(ys)-1)
	for i := range cells {
		cells[i] = make([][]Glyph, len(xs)-1)
	}
	for _, g := range glyphs {
		col := slot(xs, g.X+g.Width/2)
		row := slot(ys, g.Top+g.Size/2)
		if col < 0 || row < 0 {
			continue
		}
		cells[row][col] = append(cells[row][col], g)
	}

	var t Table
	for _, rowCells := range cells {
		row := make([]string, len(rowCells))
		empty := true
		for j, cg := range rowCells {
			words := AssembleWords(cg, DefaultOptions)
			row[j] = LinesText(GroupLines(words, cellLineTolerance))
			if row[j] != "" {
				empty = false
			}
		}
		if !empty {
			t = append(t, row)
		}
	}
	return t
}

// slot returns i such that bounds[i] <= v < bounds[i+1], or -1.
func slot(bounds []float64, v float64) int {
	for i := 0; i+1 < len(bounds); i++ {
		if v >= bounds[i] && v < bounds[i+1] {
			return i
		}
	}
	return -1
}

// ColumnTable cuts whitespace-aligned lines into cells. bounds are the left
// edges of the columns after the first. A line for which rowStart returns true
// opens a new row; other lines extend the cells of the open row.
func ColumnTable(lines []Line, bounds []float64, rowStart func(Line) bool) Table {
	var t Table
	var cur [][]string
	flush := func() {
		if cur == nil {
			return
		}
		row := make([]string, len(cur))
		for i, parts := range cur {
			row[i] = strings.Join(parts, "\n")
		}
		t = append(t, row)
		cur = nil
	}

	for _, l := range lines {
		if rowStart(l) {
			flush()
			cur = make([][]string, len(bounds)+1)
		}
		if cur == nil {
			continue
		}
		segs := make([][]string, len(bounds)+1)
		for _, w := range l.Words {
			col := sort.Search(len(bounds), func(i int) bool { return bounds[i] > w.X })
			segs[col] = append(segs[col], w.Text)
		}
		for i, s := range segs {
			if len(s) > 0 {
				cur[i] = append(cur[i], strings.Join(s, " "))
			}
		}
	}
	flush()
	return t
}
