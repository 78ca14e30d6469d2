package importer

import (
	"regexp"
	"strings"

	"github.com/izvod-dev/izvod/internal/extract"
	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/model"
)

// AdriaticParser parses Adriatic Bank "STATEMENT TURNOVER" documents. The
// English layout is a ruled table of DATE, TRANSACTION DESCRIPTION,
// counterparty, references, CHARGED and IN BENEFIT.
type AdriaticParser struct{}

var (
	adriaticNumber   = regexp.MustCompile(`Statement\s+no\s*:\s*(\d+)`)
	adriaticAccount  = regexp.MustCompile(`Account\s+no\s*:\s*(\d+)`)
	adriaticCurrency = regexp.MustCompile(`Currency\s*:\s*\d+\s+(\w+)`)
	adriaticDate     = regexp.MustCompile(`Statem\.\s*date\s*:\s*(\d{2}\.\d{2}\.\d{4})`)
	adriaticIBAN     = regexp.MustCompile(`IBAN\s*:\s*(ME\d+)`)
	adriaticPeriod   = regexp.MustCompile(`For\s+period:\s*(\d{2}\.\d{2}\.\d{4})\s*-\s*(\d{2}\.\d{2}\.\d{4})[ \t]*([^\n]*)`)
	adriaticInitial  = regexp.MustCompile(`INITIAL\s+STATE\s+ON\s+DAY:\s*\d{2}\.\d{2}\.\d{4}\s+([\d,]+\.\d{2})`)
	adriaticRowDate  = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}`)
	adriaticAcctLine = regexp.MustCompile(`^\d{15,18}$`)
	adriaticRefLine  = regexp.MustCompile(`^\d{10,}\s+\d+$`)
	adriaticCodeLine = regexp.MustCompile(`^(\d{3})\s+(.+)`)
	adriaticMarkers  = []*regexp.Regexp{
		regexp.MustCompile(`STATEMENT\s+TURNOVER`),
		regexp.MustCompile(`Statement\s+no`),
		regexp.MustCompile(`Account\s+no`),
	}
)

// Bank returns the bank this parser reads.
func (p *AdriaticParser) Bank() model.Bank { return model.Adriatic }

// Parse reads an Adriatic PDF statement.
func (p *AdriaticParser) Parse(data []byte) (model.Statement, error) {
	doc, err := loadPDF(data)
	if err != nil {
		return model.Statement{}, err
	}
	return p.parseDocument(doc)
}

func (p *AdriaticParser) parseDocument(doc *layout.Document) (model.Statement, error) {
	text := firstPage(doc).Text(layout.DefaultOptions)
	if err := requireAnchor(text, adriaticMarkers...); err != nil {
		return model.Statement{}, err
	}

	b := model.NewStatementBuilder(p.Bank())
	p.header(text, &b.Header)

	grid := extract.Grid{
		Columns: extract.Columns{extract.Date: 0, extract.Party: 2, extract.Debit: 4, extract.Credit: 5},
		Amount:  intl,
		Date:    dmy,
		Skip:    func(row []string) bool { return p.skip(row, &b.Header) },
		Accept:  func(row []string) bool { return adriaticRowDate.MatchString(strings.TrimSpace(row[0])) },
		Party:   p.party,
		Refine:  p.refine,
	}
	grid.Collect(doc.Tables(), b)
	return b.Build(), nil
}

func (p *AdriaticParser) header(text string, h *model.Header) {
	h.StatementNumber = submatch(adriaticNumber, text, 1)
	h.AccountNumber = submatch(adriaticAccount, text, 1)
	if c := submatch(adriaticCurrency, text, 1); c != "" {
		h.Currency = c
	}
	h.StatementDate = dmy(submatch(adriaticDate, text, 1))
	h.IBAN = submatch(adriaticIBAN, text, 1)
	if m := adriaticPeriod.FindStringSubmatch(text); m != nil {
		h.PeriodStart = dmy(m[1])
		h.PeriodEnd = dmy(m[2])
		h.ClientName = extract.Clean(m[3])
	}
	h.OpeningBalance = intl(submatch(adriaticInitial, text, 1))
}

// skip consumes the title, opening, turnover and closing rows.
func (p *AdriaticParser) skip(row []string, h *model.Header) bool {
	first := strings.TrimSpace(row[0])
	switch {
	case first == "DATE" || first == "":
		for _, c := range row {
			if strings.Contains(c, "TRANSACTION") {
				return true
			}
		}
	case strings.Contains(first, "INITIAL STATE"):
		return true
	case first == "SALES:":
		if s := strings.TrimSpace(layout.Cell(row, 4)); s != "" {
			h.TotalDebit = intl(s)
		}
		if s := strings.TrimSpace(layout.Cell(row, 5)); s != "" {
			h.TotalCredit = intl(s)
		}
		return true
	case strings.Contains(first, "NEW BALANCE"):
		for i := len(row) - 1; i >= 0; i-- {
			if s := strings.TrimSpace(row[i]); s != "" {
				h.ClosingBalance = intl(s)
				break
			}
		}
		return true
	}
	return false
}

func (p *AdriaticParser) party(cell string, tx *model.Transaction) {
	lines := extract.SplitLines(cell)
	if len(lines) == 0 {
		return
	}
	tx.Counterparty = extract.Clean(lines[0])
	if len(lines) > 1 && adriaticAcctLine.MatchString(lines[1]) {
		tx.CounterpartyAccount = lines[1]
	}
}

// refine reads the description cell, whose lines are purpose text, a
// code-prefixed purpose or the debit reference, and the reference cell.
func (p *AdriaticParser) refine(row []string, tx *model.Transaction) {
	var purpose string
	for _, l := range extract.SplitLines(layout.Cell(row, 1)) {
		if adriaticRefLine.MatchString(l) {
			tx.ReferenceDebit = l
			continue
		}
		if m := adriaticCodeLine.FindStringSubmatch(l); m != nil {
			tx.PaymentCode = m[1]
			purpose = appendText(purpose, m[2])
			continue
		}
		purpose = appendText(purpose, l)
	}
	tx.Purpose = extract.Clean(purpose)

	if refs := extract.SplitLines(layout.Cell(row, 3)); len(refs) > 0 {
		tx.ReferenceCredit = extract.Clean(strings.Join(refs, " "))
	}
}
