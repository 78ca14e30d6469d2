package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/izvod-dev/izvod/internal/extract"
	"github.com/izvod-dev/izvod/internal/htmldoc"
	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/locale"
	"github.com/izvod-dev/izvod/internal/model"
)

// ErsteParser parses Erste Bank statements exported as Windows-1250 HTML.
// Header values follow their label cells; transactions are rows of the
// innermost table titled "Datum dokumenta".
type ErsteParser struct{}

// ersteTableMarker titles the transaction table.
const ersteTableMarker = "Datum dokumenta"

var (
	erstePeriod   = regexp.MustCompile(`Za\s+period.*?:\s*(\d{2}\.\d{2}\.\d{4})`)
	ersteClient   = regexp.MustCompile(`(?s)^Naziv\s+klijenta:\s*(.*)$`)
	ersteAccount  = regexp.MustCompile(`(?s)^Broj\s+ra[čc]una:\s*(.*)$`)
	ersteNumber   = regexp.MustCompile(`(?s)^Broj\s+izvoda:\s*(.*)$`)
	ersteCurrency = regexp.MustCompile(`(?s)^Oznaka\s+valute:\s*(.*)$`)
	ersteOwn      = regexp.MustCompile(`540[\d-]+`)
	ersteWord     = regexp.MustCompile(`^\S+`)
	ersteSeq      = regexp.MustCompile(`^(\d+)\s*-\s*(.*)$`)
	ersteAcctLine = regexp.MustCompile(`^\d{3}-`)
)

// Bank returns the bank this parser reads.
func (p *ErsteParser) Bank() model.Bank { return model.Erste }

// Parse reads an Erste HTML statement.
func (p *ErsteParser) Parse(data []byte) (model.Statement, error) {
	doc, err := htmldoc.Parse(data)
	if err != nil {
		return model.Statement{}, fmt.Errorf("%w: %w", ErrStructure, err)
	}
	return p.parseDocument(doc)
}

func (p *ErsteParser) parseDocument(doc *htmldoc.Document) (model.Statement, error) {
	rows, ok := doc.Table(ersteTableMarker)
	if !ok {
		return model.Statement{}, structural("no %q table", ersteTableMarker)
	}

	b := model.NewStatementBuilder(p.Bank())
	p.header(doc, &b.Header)

	grid := extract.Grid{
		Columns: extract.Columns{extract.Party: 1, extract.Debit: 4, extract.Credit: 5},
		Amount:  eu,
		Skip:    func(row []string) bool { return p.balanceRow(row, &b.Header) },
		Accept: func(row []string) bool {
			return len(row) >= 5 && len(locale.DMY.FindAll(row[0])) > 0
		},
		Party:  p.party,
		Refine: p.refine,
	}
	grid.Collect([]layout.Table{rows}, b)
	return b.Build(), nil
}

func (p *ErsteParser) header(doc *htmldoc.Document, h *model.Header) {
	for _, para := range doc.Paragraphs() {
		if d := submatch(erstePeriod, para, 1); d != "" {
			h.StatementDate = dmy(d)
			break
		}
	}

	cells := doc.Cells()
	h.ClientName = extract.Clean(labelled(cells, ersteClient))
	h.AccountNumber = ersteOwn.FindString(labelled(cells, ersteAccount))
	h.StatementNumber = ersteWord.FindString(labelled(cells, ersteNumber))
	if c := ersteWord.FindString(labelled(cells, ersteCurrency)); c != "" {
		h.Currency = c
	}
}

// labelled returns the value printed after a label cell: the rest of the
// label's own cell, or else the next cell.
func labelled(cells []string, label *regexp.Regexp) string {
	for i, c := range cells {
		m := label.FindStringSubmatch(strings.TrimSpace(c))
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
		if i+1 < len(cells) {
			return strings.TrimSpace(cells[i+1])
		}
	}
	return ""
}

// balanceRow consumes the opening, closing and turnover rows of the
// transaction table, and its title row.
func (p *ErsteParser) balanceRow(row []string, h *model.Header) bool {
	first := strings.TrimSpace(row[0])
	lower := strings.ToLower(first)
	last := extract.FirstLine(row[len(row)-1])
	switch {
	case strings.Contains(first, "Stanje na dan"):
		if len(row) >= 5 {
			h.TotalDebit = eu(extract.FirstLine(row[len(row)-2]))
			h.TotalCredit = eu(last)
		}
		return true
	case strings.Contains(lower, "stanje") && strings.Contains(lower, "po"):
		h.OpeningBalance = eu(last)
		return true
	case strings.Contains(lower, "stanje") && strings.Contains(lower, "kon"):
		h.ClosingBalance = eu(last)
		return true
	case first == "" || strings.Contains(first, ersteTableMarker):
		return true
	}
	return false
}

// party reads the counterparty name and, on the next line, its account.
func (p *ErsteParser) party(cell string, tx *model.Transaction) {
	lines := extract.SplitLines(cell)
	if len(lines) == 0 {
		return
	}
	tx.Counterparty = extract.Clean(lines[0])
	if len(lines) > 1 && ersteAcctLine.MatchString(lines[1]) {
		tx.CounterpartyAccount = lines[1]
	}
}

func (p *ErsteParser) refine(row []string, tx *model.Transaction) {
	// document, value and processing dates are stacked in the first cell
	dates := locale.DMY.FindAll(row[0])
	if len(dates) > 0 {
		tx.BookingDate = &dates[0]
	}
	if len(dates) > 1 {
		tx.ValueDate = &dates[1]
	}

	if first := extract.FirstLine(layout.Cell(row, 2)); first != "" {
		if m := ersteSeq.FindStringSubmatch(first); m != nil {
			tx.RowNumber, _ = strconv.Atoi(m[1])
			tx.Purpose = extract.Clean(m[2])
		} else {
			tx.Purpose = extract.Clean(first)
		}
	}

	refs := extract.SplitLines(layout.Cell(row, 3))
	if len(refs) > 0 {
		tx.ReferenceDebit = extract.Clean(refs[0])
	}
	if len(refs) > 1 {
		tx.ReferenceCredit = extract.Clean(refs[1])
	}
	if len(refs) > 2 {
		tx.Reclamation = extract.Clean(refs[2])
	}
}
