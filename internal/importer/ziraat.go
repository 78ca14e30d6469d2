package importer

import (
	"regexp"
	"strings"

	"github.com/izvod-dev/izvod/internal/extract"
	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/model"
)

// ZiraatParser parses Ziraat Bank Montenegro statements. The layout mirrors
// UCB's ruled RB table, except that each debit cell carries the fee on a
// second "Naknada" line.
type ZiraatParser struct{}

// ziraatEmptyRef is printed for a missing model reference.
const ziraatEmptyRef = "( )"

var (
	ziraatName     = regexp.MustCompile(`(?m)Naziv:\s*(.+?)(?:\s{2,}|Matični|$)`)
	ziraatAccount  = regexp.MustCompile(`Račun:\s*([\d-]+)`)
	ziraatNumber   = regexp.MustCompile(`IZVOD\s+BROJ\s+(\d+)`)
	ziraatDate     = regexp.MustCompile(`NA\s+DAN\s+(\d{2}\.\d{2}\.\d{4})`)
	ziraatTaxID    = regexp.MustCompile(`PIB:\s*(\d+)`)
	ziraatBalance  = regexp.MustCompile(`^[\d,]+\.\d{2}$`)
	ziraatRow      = regexp.MustCompile(`^\d+$`)
	ziraatAcctLine = regexp.MustCompile(`^\d{3}-\d+-\d{2}$`)
	ziraatFee      = regexp.MustCompile(`Naknada\s+([\d,]+\.\d{2})`)
	ziraatMarkers  = []*regexp.Regexp{ziraatNumber, regexp.MustCompile(`Račun:\s*575-`)}
)

// Bank returns the bank this parser reads.
func (p *ZiraatParser) Bank() model.Bank { return model.Ziraat }

// Parse reads a Ziraat PDF statement.
func (p *ZiraatParser) Parse(data []byte) (model.Statement, error) {
	doc, err := loadPDF(data)
	if err != nil {
		return model.Statement{}, err
	}
	return p.parseDocument(doc)
}

func (p *ZiraatParser) parseDocument(doc *layout.Document) (model.Statement, error) {
	first := firstPage(doc)
	text := first.Text(layout.DefaultOptions)
	if err := requireAnchor(text, ziraatMarkers...); err != nil {
		return model.Statement{}, err
	}

	b := model.NewStatementBuilder(p.Bank())
	p.header(text, first.Tables(), &b.Header)

	grid := extract.Grid{
		Columns: extract.Columns{
			extract.Seq: 0, extract.Party: 1, extract.Date: 2, extract.Debit: 3, extract.Credit: 4,
			extract.Code: 5, extract.Purpose: 6, extract.Reclamation: 8,
		},
		Amount: intl,
		Date:   dmy,
		Skip:   func(row []string) bool { return p.totals(row, &b.Header) },
		Accept: func(row []string) bool { return ziraatRow.MatchString(strings.TrimSpace(row[0])) },
		Party:  p.party,
		Refine: p.refine,
	}
	grid.Collect(doc.Tables(), b)
	return b.Build(), nil
}

func (p *ZiraatParser) header(text string, tables []layout.Table, h *model.Header) {
	h.ClientName = extract.Clean(submatch(ziraatName, text, 1))
	h.AccountNumber = submatch(ziraatAccount, text, 1)
	h.StatementNumber = submatch(ziraatNumber, text, 1)
	h.StatementDate = dmy(submatch(ziraatDate, text, 1))
	h.ClientTaxID = submatch(ziraatTaxID, text, 1)

	for _, t := range tables {
		for _, row := range t {
			if !ziraatBalance.MatchString(strings.TrimSpace(layout.Cell(row, 0))) {
				continue
			}
			h.OpeningBalance = intl(layout.Cell(row, 0))
			h.TotalDebit = intl(layout.Cell(row, 1))
			h.TotalCredit = intl(layout.Cell(row, 2))
			h.ClosingBalance = intl(layout.Cell(row, 3))
			return
		}
	}
}

// totals consumes the UKUPNO row, whose debit and credit cells start with
// the turnover amounts.
func (p *ZiraatParser) totals(row []string, h *model.Header) bool {
	if !strings.Contains(row[0], "UKUPNO") {
		return false
	}
	if d := intl(extract.FirstLine(layout.Cell(row, 3))); d.Valid {
		h.TotalDebit = d
	}
	if c := intl(extract.FirstLine(layout.Cell(row, 4))); c.Valid {
		h.TotalCredit = c
	}
	return true
}

// party splits the account line from the name lines, which are often printed
// without spaces and are joined with commas.
func (p *ZiraatParser) party(cell string, tx *model.Transaction) {
	var names []string
	for _, l := range extract.SplitLines(cell) {
		if ziraatAcctLine.MatchString(l) {
			tx.CounterpartyAccount = l
			continue
		}
		names = append(names, l)
	}
	tx.Counterparty = extract.Clean(strings.Join(names, ", "))
}

func (p *ZiraatParser) refine(row []string, tx *model.Transaction) {
	if debit := extract.SplitLines(layout.Cell(row, 3)); len(debit) > 1 {
		if m := ziraatFee.FindStringSubmatch(debit[1]); m != nil {
			tx.Fee = intl(m[1])
		}
	}

	refs := extract.SplitLines(layout.Cell(row, 7))
	if len(refs) > 0 && refs[0] != ziraatEmptyRef {
		tx.ReferenceDebit = refs[0]
	}
	if len(refs) > 1 && refs[1] != ziraatEmptyRef {
		tx.ReferenceCredit = refs[1]
	}
}
