package importer

import (
	"regexp"
	"strings"

	"github.com/izvod-dev/izvod/internal/extract"
	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/model"
)

// LovcenParser parses Lovćen Banka statements: ruled tables with European
// amounts, one transaction per row starting with its value date.
type LovcenParser struct{}

var (
	lovcenClient    = regexp.MustCompile(`(?m)Klijent\s*:\s*(.+?)(?:\s+PIB|\s*$)`)
	lovcenTaxID     = regexp.MustCompile(`PIB\s*:\s*(\d+)`)
	lovcenAccount   = regexp.MustCompile(`Broj\s+ra[čc]una\s*:\s*(\d{18})`)
	lovcenNumber    = regexp.MustCompile(`IZVOD\s+BR\.\s*(\d+)\s+za\s+dan\s+(\d{2}\.\d{2}\.\d{4})`)
	lovcenNumeric   = regexp.MustCompile(`^[\d.,]+$`)
	lovcenSummary   = regexp.MustCompile(`^[\d.,\s]+$`)
	lovcenColNumber = regexp.MustCompile(`^\d$`)
	lovcenDate      = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}`)
	lovcenMarkers   = []*regexp.Regexp{regexp.MustCompile(`IZVOD\s+BR\.`), regexp.MustCompile(`Broj\s+ra[čc]una`)}
)

// Bank returns the bank this parser reads.
func (p *LovcenParser) Bank() model.Bank { return model.Lovcen }

// Parse reads a Lovćen PDF statement.
func (p *LovcenParser) Parse(data []byte) (model.Statement, error) {
	doc, err := loadPDF(data)
	if err != nil {
		return model.Statement{}, err
	}
	return p.parseDocument(doc)
}

func (p *LovcenParser) parseDocument(doc *layout.Document) (model.Statement, error) {
	text := doc.Text(layout.DefaultOptions)
	if err := requireAnchor(text, lovcenMarkers...); err != nil {
		return model.Statement{}, err
	}

	b := model.NewStatementBuilder(p.Bank())
	h := &b.Header
	h.ClientName = extract.Clean(submatch(lovcenClient, text, 1))
	h.ClientTaxID = submatch(lovcenTaxID, text, 1)
	h.AccountNumber = submatch(lovcenAccount, text, 1)
	if m := lovcenNumber.FindStringSubmatch(text); m != nil {
		h.StatementNumber = trimZeros(m[1])
		h.StatementDate = dmy(m[2])
	}

	grid := extract.Grid{
		Columns: extract.Columns{
			extract.Date: 0, extract.Party: 1, extract.Bank: 2, extract.Debit: 3, extract.Credit: 4,
			extract.RefDebit: 6, extract.Reclamation: 7,
		},
		Amount: eu,
		Date:   dmy,
		Skip:   func(row []string) bool { return p.skip(row, h) },
		Accept: func(row []string) bool { return lovcenDate.MatchString(strings.TrimSpace(row[0])) },
		Refine: func(row []string, tx *model.Transaction) {
			code, purpose := extract.SplitCode(layout.Cell(row, 5))
			tx.PaymentCode = code
			tx.Purpose = extract.Clean(purpose)
		},
	}
	grid.Collect(doc.Tables(), b)
	return b.Build(), nil
}

// skip consumes the balance table and the title rows of the transaction table.
func (p *LovcenParser) skip(row []string, h *model.Header) bool {
	first := strings.TrimSpace(row[0])
	switch {
	case first == "Predhodno stanje" || first == "Prethodno stanje":
		return true
	case first == "Valuta" || strings.Contains(first, "Naziv i") || lovcenColNumber.MatchString(first):
		// title rows, including the row of column numbers
		return true
	case lovcenNumeric.MatchString(first) && isLovcenSummary(row):
		h.OpeningBalance = eu(layout.Cell(row, 0))
		h.TotalDebit = eu(layout.Cell(row, 1))
		h.TotalCredit = eu(layout.Cell(row, 2))
		h.ClosingBalance = eu(layout.Cell(row, 3))
		return true
	}
	return false
}

func isLovcenSummary(row []string) bool {
	if len(row) < 4 {
		return false
	}
	for _, c := range row[:4] {
		if c = strings.TrimSpace(c); c != "" && !lovcenSummary.MatchString(c) {
			return false
		}
	}
	return true
}
