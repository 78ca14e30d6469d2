package importer

import (
	"regexp"
	"strings"

	"github.com/izvod-dev/izvod/internal/extract"
	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/model"
)

// HipotekarnaParser parses Hipotekarna Banka statements. The PDF has no
// rulings: the header is a block of positioned phrases and every
// transaction is a start line (date, bank, debit, credit) followed by an
// account line carrying the purpose and reclamation reference.
type HipotekarnaParser struct{}

// Header phrases are read with blanks kept so "Naziv d.o.o." stays one word.
var hipotekarnaWords = layout.Options{XTolerance: 3, YTolerance: 3, KeepBlanks: true}

const (
	hipotekarnaLineTolerance = 5
	// the client block sits in the right half of the page
	hipotekarnaClientX = 900
	hipotekarnaTaxIDX  = 1000
)

var (
	hipotekarnaTaxID     = regexp.MustCompile(`^\d{7,8}$`)
	hipotekarnaCurrency  = regexp.MustCompile(`^\d{3}$`)
	hipotekarnaAccount   = regexp.MustCompile(`^(520|565)\d{15}$`)
	hipotekarnaNumber    = regexp.MustCompile(`^\d{1,4}$`)
	hipotekarnaDate      = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
	hipotekarnaNumeric   = regexp.MustCompile(`^[\d.]+$`)
	hipotekarnaStart     = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})\.?\s+(.+?)\s+([\d,.]+)\s+([\d,.]+)\s*$`)
	hipotekarnaParty     = regexp.MustCompile(`^(\d{18})\s*(.*)$`)
	hipotekarnaReclaim   = regexp.MustCompile(`(\d{3}-\d{9,15})\s*$`)
	hipotekarnaSummary   = regexp.MustCompile(`^([\d,.]+)\s+([\d,.]+)\s+([\d,.]+)\s+([\d,.]+)\s+(\d+)\s+(\d+)\s*$`)
	hipotekarnaMarkers   = []*regexp.Regexp{regexp.MustCompile(`IZVOD\s+BR`), regexp.MustCompile(`\b520\d{15}\b`)}
	hipotekarnaBlockScan = extract.Blocks[string]{
		IsStart:    hipotekarnaStart.MatchString,
		IsTerminal: hipotekarnaSummary.MatchString,
	}
)

// Bank returns the bank this parser reads.
func (p *HipotekarnaParser) Bank() model.Bank { return model.Hipotekarna }

// Parse reads a Hipotekarna PDF statement.
func (p *HipotekarnaParser) Parse(data []byte) (model.Statement, error) {
	doc, err := loadPDF(data)
	if err != nil {
		return model.Statement{}, err
	}
	return p.parseDocument(doc)
}

func (p *HipotekarnaParser) parseDocument(doc *layout.Document) (model.Statement, error) {
	lines := pageLines(doc, layout.DefaultOptions)
	if err := requireAnchor(strings.Join(lines, "\n"), hipotekarnaMarkers...); err != nil {
		return model.Statement{}, err
	}

	b := model.NewStatementBuilder(p.Bank())
	p.header(firstPage(doc), &b.Header)

	for _, l := range lines {
		if m := hipotekarnaSummary.FindStringSubmatch(l); m != nil {
			b.Header.OpeningBalance = intl(m[1])
			b.Header.TotalDebit = intl(m[2])
			b.Header.TotalCredit = intl(m[3])
			b.Header.ClosingBalance = intl(m[4])
		}
	}
	for _, blk := range hipotekarnaBlockScan.Scan(lines) {
		b.Add(p.transaction(blk))
	}
	return b.Build(), nil
}

func (p *HipotekarnaParser) header(page layout.Page, h *model.Header) {
	lines := layout.GroupLines(page.Words(hipotekarnaWords), hipotekarnaLineTolerance)
	for _, l := range lines {
		var words []layout.Word
		for _, w := range l.Words {
			if w.Text = strings.TrimSpace(w.Text); w.Text != "" {
				words = append(words, w)
			}
		}

		for _, w := range words {
			switch {
			case hipotekarnaTaxID.MatchString(w.Text) && w.X > hipotekarnaTaxIDX:
				h.ClientTaxID = w.Text
			case hipotekarnaCurrency.MatchString(w.Text) && w.X > hipotekarnaTaxIDX:
				// numeric currency code, e.g. 978
			case hipotekarnaAccount.MatchString(w.Text):
				h.AccountNumber = w.Text
			case hipotekarnaNumber.MatchString(w.Text) && h.StatementNumber == "":
				for _, o := range words {
					if hipotekarnaDate.MatchString(o.Text) {
						h.StatementNumber = trimZeros(w.Text)
						h.StatementDate = dmy(o.Text)
						break
					}
				}
			}
		}

		if h.ClientName == "" {
			for _, w := range words {
				if w.X > hipotekarnaClientX && !hipotekarnaNumeric.MatchString(w.Text) && len([]rune(w.Text)) > 3 {
					h.ClientName = extract.Clean(w.Text)
					break
				}
			}
		}
	}
}

func (p *HipotekarnaParser) transaction(blk extract.Block[string]) model.Transaction {
	m := hipotekarnaStart.FindStringSubmatch(blk.Head)
	var tx model.Transaction
	tx.SetDates(dmy(m[1]))
	tx.CounterpartyBank = extract.Clean(m[2])
	tx.Debit = intl(m[3])
	tx.Credit = intl(m[4])

	if len(blk.Body) == 0 {
		return tx
	}
	if pm := hipotekarnaParty.FindStringSubmatch(blk.Body[0]); pm != nil {
		tx.CounterpartyAccount = pm[1]
		rest := strings.TrimSpace(pm[2])
		if loc := hipotekarnaReclaim.FindStringSubmatchIndex(rest); loc != nil {
			tx.Purpose = extract.Clean(rest[:loc[0]])
			tx.Reclamation = rest[loc[2]:loc[3]]
		} else {
			tx.Purpose = extract.Clean(rest)
		}
	}
	return tx
}
