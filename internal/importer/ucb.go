package importer

import (
	"regexp"
	"strings"

	"github.com/izvod-dev/izvod/internal/extract"
	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/model"
)

// UCBParser parses Universal Capital Bank statements: a ruled summary table
// followed by a ruled transaction table numbered by RB.
type UCBParser struct{}

var (
	ucbName      = regexp.MustCompile(`Naziv:\s*(.+)`)
	ucbNameStops = []string{"Mjesto:", "Matični", "Izvod"}
	ucbAccount   = regexp.MustCompile(`Broj\s+partije:\s*([\d-]+)`)
	ucbNumber    = regexp.MustCompile(`Izvod\s+broj\s*:\s*(\d+)`)
	ucbDate      = regexp.MustCompile(`NA\s+DAN\s+(\d{2}\.\d{2}\.\d{4})`)
	ucbTaxID     = regexp.MustCompile(`(?:Poreski\s+broj|PIB):\s*(\d+)`)
	ucbBalance   = regexp.MustCompile(`^[\d,]+\.\d{2}`)
	ucbRow       = regexp.MustCompile(`^\d+$`)
	ucbTrailAcct = regexp.MustCompile(`(\d{15,18})\s*$`)
	ucbCommas    = regexp.MustCompile(`,\s*,`)
	ucbMarkers   = []*regexp.Regexp{ucbAccount, ucbNumber}
)

// Bank returns the bank this parser reads.
func (p *UCBParser) Bank() model.Bank { return model.UCB }

// Parse reads a UCB PDF statement.
func (p *UCBParser) Parse(data []byte) (model.Statement, error) {
	doc, err := loadPDF(data)
	if err != nil {
		return model.Statement{}, err
	}
	return p.parseDocument(doc)
}

func (p *UCBParser) parseDocument(doc *layout.Document) (model.Statement, error) {
	first := firstPage(doc)
	text := first.Text(layout.DefaultOptions)
	if err := requireAnchor(text, ucbMarkers...); err != nil {
		return model.Statement{}, err
	}

	b := model.NewStatementBuilder(p.Bank())
	p.header(text, first.Tables(), &b.Header)

	grid := extract.Grid{
		Columns: extract.Columns{
			extract.Seq: 0, extract.Party: 1, extract.Date: 2, extract.Debit: 3, extract.Credit: 4,
			extract.Code: 5, extract.Purpose: 6, extract.RefCredit: 7, extract.Reclamation: 8,
		},
		Amount: intl,
		Date:   ymd,
		Skip: func(row []string) bool {
			if !strings.Contains(row[0], "Ukupno") {
				return false
			}
			if s := strings.TrimSpace(layout.Cell(row, 3)); s != "" {
				b.Header.TotalDebit = intl(s)
			}
			if s := strings.TrimSpace(layout.Cell(row, 4)); s != "" {
				b.Header.TotalCredit = intl(s)
			}
			return true
		},
		Accept: func(row []string) bool { return ucbRow.MatchString(strings.TrimSpace(row[0])) },
		Party:  p.party,
	}
	grid.Collect(doc.Tables(), b)
	return b.Build(), nil
}

func (p *UCBParser) header(text string, tables []layout.Table, h *model.Header) {
	if name := submatch(ucbName, text, 1); name != "" {
		for _, stop := range ucbNameStops {
			if i := strings.Index(name, stop); i > 0 {
				name = strings.TrimSpace(name[:i])
			}
		}
		h.ClientName = extract.Clean(name)
	}
	h.AccountNumber = submatch(ucbAccount, text, 1)
	h.StatementNumber = submatch(ucbNumber, text, 1)
	h.StatementDate = dmy(submatch(ucbDate, text, 1))
	h.ClientTaxID = submatch(ucbTaxID, text, 1)

	// the first table summarizes the period: opening, debit, credit, closing
	if len(tables) == 0 {
		return
	}
	for _, row := range tables[0] {
		if !ucbBalance.MatchString(strings.TrimSpace(layout.Cell(row, 0))) {
			continue
		}
		h.OpeningBalance = intl(layout.Cell(row, 0))
		h.TotalDebit = intl(layout.Cell(row, 1))
		h.TotalCredit = intl(layout.Cell(row, 2))
		h.ClosingBalance = intl(layout.Cell(row, 3))
		return
	}
}

// party reads name and address lines; the account is the long digit run
// ending one of them.
func (p *UCBParser) party(cell string, tx *model.Transaction) {
	var names []string
	for _, l := range extract.SplitLines(cell) {
		loc := ucbTrailAcct.FindStringSubmatchIndex(l)
		if loc == nil {
			names = append(names, l)
			continue
		}
		tx.CounterpartyAccount = l[loc[2]:loc[3]]
		if prefix := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(l[:loc[0]]), ",")); prefix != "" {
			names = append(names, prefix)
		}
	}
	full := ucbCommas.ReplaceAllString(strings.Join(names, ", "), ",")
	tx.Counterparty = extract.Clean(full)
}
