// Package htmldoc reads statement pages exported as HTML: paragraph text,
// table cells and table rows.
package htmldoc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"github.com/izvod-dev/izvod/internal/layout"
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Decode converts Windows-1250 bytes to UTF-8. If the bytes contain
// sequences undefined in that code page they are read as UTF-8 instead, with
// invalid sequences replaced.
func Decode(data []byte) string {
	out, err := charmap.Windows1250.NewDecoder().Bytes(data)
	if err == nil && !bytes.ContainsRune(out, utf8.RuneError) {
		return string(out)
	}
	return strings.ToValidUTF8(string(data), "�")
}

// Parse decodes and parses data.
func Parse(data []byte) (*Document, error) {
	root, err := html.Parse(strings.NewReader(Decode(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Document{root: root}, nil
}

// Paragraphs returns the text of every <p> element in document order.
func (d *Document) Paragraphs() []string {
	var out []string
	for _, p := range findAll(d.root, "p") {
		out = append(out, text(p, " "))
	}
	return out
}

// Cells returns the text of every <td> and <th> in document order, lines
// separated by "\n".
func (d *Document) Cells() []string {
	var out []string
	walk(d.root, func(n *html.Node) bool {
		if isElement(n, "td") || isElement(n, "th") {
			out = append(out, text(n, "\n"))
		}
		return true
	})
	return out
}

// Text returns all text of the document, fragments separated by spaces.
func (d *Document) Text() string {
	return text(d.root, " ")
}

// Table returns the rows of the innermost table whose text contains marker.
func (d *Document) Table(marker string) (layout.Table, bool) {
	var found *html.Node
	for _, t := range findAll(d.root, "table") {
		if strings.Contains(text(t, " "), marker) {
			found = t
		}
	}
	if found == nil {
		return nil, false
	}
	return rows(found), true
}

// rows returns the table's own rows, ignoring rows of nested tables.
func rows(table *html.Node) layout.Table {
	var t layout.Table
	walk(table, func(n *html.Node) bool {
		if n != table && isElement(n, "table") {
			return false
		}
		if !isElement(n, "tr") {
			return true
		}
		var row []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c, "td") || isElement(c, "th") {
				row = append(row, text(c, "\n"))
			}
		}
		if len(row) > 0 {
			t = append(t, row)
		}
		return false
	})
	return t
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// walk visits n and its descendants depth first; returning false from fn
// skips the node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walk(n, func(c *html.Node) bool {
		if isElement(c, tag) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// text joins the trimmed, non-empty text nodes under n with sep.
func text(n *html.Node, sep string) string {
	var parts []string
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && (c.Data == "script" || c.Data == "style") {
			return false
		}
		if c.Type == html.TextNode {
			if s := strings.Join(strings.Fields(c.Data), " "); s != "" {
				parts = append(parts, s)
			}
		}
		return true
	})
	return strings.Join(parts, sep)
}
