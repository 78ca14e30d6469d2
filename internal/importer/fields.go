package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/locale"
	"github.com/izvod-dev/izvod/internal/pdfdoc"
)

// Field helpers below report malformed tokens as absent values.

func eu(s string) decimal.NullDecimal {
	d, _ := locale.ParseAmountEU(s)
	return d
}

func intl(s string) decimal.NullDecimal {
	d, _ := locale.ParseAmountIntl(s)
	return d
}

func dmy(s string) *time.Time {
	d, _ := locale.DMY.Find(s)
	return d
}

func ymd(s string) *time.Time {
	d, _ := locale.YMD.Find(s)
	return d
}

func slash(s string) *time.Time {
	d, _ := locale.DMYSlash.Find(s)
	return d
}

// submatch returns group i of the first match of re in s, trimmed.
func submatch(re *regexp.Regexp, s string, i int) string {
	m := re.FindStringSubmatch(s)
	if m == nil || i >= len(m) {
		return ""
	}
	return strings.TrimSpace(m[i])
}

// trimZeros drops leading zeros of a statement number, keeping a lone "0".
func trimZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" && s != "" {
		return "0"
	}
	return t
}

func loadPDF(data []byte) (*layout.Document, error) {
	doc, err := pdfdoc.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStructure, err)
	}
	return doc, nil
}

// requireAnchor fails unless text contains at least one of the layout's
// fixed markers.
func requireAnchor(text string, anchors ...*regexp.Regexp) error {
	for _, a := range anchors {
		if a.MatchString(text) {
			return nil
		}
	}
	return structural("no statement markers found")
}

// pageLines returns the text lines of every page in order.
func pageLines(doc *layout.Document, opt layout.Options) []string {
	var out []string
	for _, p := range doc.Pages {
		for _, l := range p.Lines(opt) {
			if s := strings.TrimSpace(l.Text()); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// firstPage returns the first page of doc, or an empty page.
func firstPage(doc *layout.Document) layout.Page {
	if len(doc.Pages) == 0 {
		return layout.Page{}
	}
	return doc.Pages[0]
}

// appendText joins s onto the end of dst with a space.
func appendText(dst, s string) string {
	s = strings.TrimSpace(s)
	if dst == "" {
		return s
	}
	if s == "" {
		return dst
	}
	return dst + " " + s
}
