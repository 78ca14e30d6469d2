package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/izvod-dev/izvod/internal/extract"
	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/model"
)

// PrvaParser parses Prva Banka CG statements. Transactions are numbered text
// blocks whose first line carries the name, the two main amounts in European
// notation and the payment code; fees on continuation lines are printed in
// international notation.
type PrvaParser struct{}

var (
	prvaName      = regexp.MustCompile(`(?m)Naziv:\s*(.+?)(?:\s+Izvod|\s*$)`)
	prvaTaxID     = regexp.MustCompile(`PIB:\s*(\d+)`)
	prvaOwn       = regexp.MustCompile(`Ra[čc]un:\s*(535-[\d-]+)`)
	prvaNumber    = regexp.MustCompile(`SREDSTAVA\s+BROJ\s+(\d+)`)
	prvaDate      = regexp.MustCompile(`Datum\s+izvoda:\s*(\d{2}\.\d{2}\.\d{4})`)
	prvaSummary   = regexp.MustCompile(`([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s+\d+\s*/\s*\d+`)
	prvaStart     = regexp.MustCompile(`^(\d{1,3})\s+([A-Za-z/",].+?)\s+([\d.]+,\d{2})\s+([\d.]+,\d{2})\s+(\d{3})\s+(.*)$`)
	prvaTotal     = regexp.MustCompile(`^UKUPNO`)
	prvaOrigin    = regexp.MustCompile(`^(.+?)\s+(?:Filijala\b|0\d{3}\b)`)
	prvaAcctDate  = regexp.MustCompile(`^(\d{3}-[\d-]+)\s+(\d{4}\.\d{2}\.\d{2})`)
	prvaDateOnly  = regexp.MustCompile(`^(\d{4}\.\d{2}\.\d{2})\s*$`)
	prvaAcctFee   = regexp.MustCompile(`^(\d{3}-[\d-]+)\s+\d{4}\s+([\d.]+)\s+\(([^)]*)\)\s*(.*)$`)
	prvaFee       = regexp.MustCompile(`^\d{4}\s+([\d.]+)\s+\(([^)]*)\)\s*(.*)$`)
	prvaNameCont  = regexp.MustCompile(`^[A-Za-z/,]`)
	prvaNameTail  = regexp.MustCompile(`\(\d+\)$`)
	prvaReclaim   = regexp.MustCompile(`\(\s*\)\s+(\d{11,})`)
	prvaModelRef  = regexp.MustCompile(`\(([^)]*)\)\s+(\d{11,})`)
	prvaMarkers   = []*regexp.Regexp{prvaNumber, prvaOwn, regexp.MustCompile(`(?m)^UKUPNO`)}
	prvaBlockScan = extract.Blocks[string]{
		IsStart:    prvaStart.MatchString,
		IsTerminal: prvaTotal.MatchString,
	}
)

// Bank returns the bank this parser reads.
func (p *PrvaParser) Bank() model.Bank { return model.Prva }

// Parse reads a Prva Banka PDF statement.
func (p *PrvaParser) Parse(data []byte) (model.Statement, error) {
	doc, err := loadPDF(data)
	if err != nil {
		return model.Statement{}, err
	}
	return p.parseDocument(doc)
}

func (p *PrvaParser) parseDocument(doc *layout.Document) (model.Statement, error) {
	lines := pageLines(doc, layout.DefaultOptions)
	text := strings.Join(lines, "\n")
	if err := requireAnchor(text, prvaMarkers...); err != nil {
		return model.Statement{}, err
	}

	b := model.NewStatementBuilder(p.Bank())
	p.header(text, &b.Header)
	for _, blk := range prvaBlockScan.Scan(lines) {
		b.Add(p.transaction(blk))
	}
	return b.Build(), nil
}

// clientMatch returns the second match when the bank's own entry precedes the
// client's, else the only one.
func clientMatch(re *regexp.Regexp, text string) string {
	all := re.FindAllStringSubmatch(text, -1)
	switch {
	case len(all) >= 2:
		return all[1][1]
	case len(all) == 1:
		return all[0][1]
	}
	return ""
}

func (p *PrvaParser) header(text string, h *model.Header) {
	h.ClientName = extract.Clean(submatch(prvaName, text, 1))
	h.ClientTaxID = clientMatch(prvaTaxID, text)
	h.AccountNumber = clientMatch(prvaOwn, text)
	h.StatementNumber = submatch(prvaNumber, text, 1)
	h.StatementDate = dmy(submatch(prvaDate, text, 1))

	if m := prvaSummary.FindStringSubmatch(text); m != nil {
		h.OpeningBalance = eu(m[1])
		h.TotalDebit = eu(m[2])
		h.TotalCredit = eu(m[3])
		h.ClosingBalance = eu(m[4])
	}
}

func (p *PrvaParser) transaction(blk extract.Block[string]) model.Transaction {
	m := prvaStart.FindStringSubmatch(blk.Head)
	var tx model.Transaction
	tx.RowNumber, _ = strconv.Atoi(m[1])
	tx.Debit = eu(m[3])
	tx.Credit = eu(m[4])
	tx.PaymentCode = m[5]
	p.purposeTail(m[6], &tx)

	if nm := prvaOrigin.FindStringSubmatch(m[2]); nm != nil {
		tx.Counterparty = extract.Clean(nm[1])
	} else {
		tx.Counterparty = extract.Clean(m[2])
	}

	for _, line := range blk.Body {
		if am := prvaAcctDate.FindStringSubmatch(line); am != nil {
			tx.CounterpartyAccount = am[1]
			tx.SetDates(ymd(am[2]))
			continue
		}
		if dm := prvaDateOnly.FindStringSubmatch(line); dm != nil {
			tx.SetDates(ymd(dm[1]))
			continue
		}
		if fm := prvaAcctFee.FindStringSubmatch(line); fm != nil {
			tx.CounterpartyAccount = fm[1]
			tx.Fee = intl(fm[2])
			tx.ReferenceCredit = modelReference(fm[3], fm[4])
			continue
		}
		if fm := prvaFee.FindStringSubmatch(line); fm != nil {
			tx.Fee = intl(fm[1])
			tx.ReferenceCredit = modelReference(fm[2], fm[3])
			continue
		}
		if tx.CounterpartyAccount == "" && prvaNameCont.MatchString(line) {
			extra := strings.Split(line, "stari ")[0]
			extra = strings.TrimSpace(strings.Split(extra, "Filijala")[0])
			extra = strings.TrimSpace(prvaNameTail.ReplaceAllString(extra, ""))
			if extra != "" {
				tx.Counterparty = extract.Clean(tx.Counterparty + " " + extra)
			}
		}
	}
	return tx
}

// purposeTail splits the narrative at the end of a start line from the model
// reference and reclamation number that may follow it.
func (p *PrvaParser) purposeTail(tail string, tx *model.Transaction) {
	if loc := prvaReclaim.FindStringSubmatchIndex(tail); loc != nil {
		tx.Purpose = extract.Clean(tail[:loc[0]])
		tx.Reclamation = tail[loc[2]:loc[3]]
		return
	}
	if loc := prvaModelRef.FindStringSubmatchIndex(tail); loc != nil {
		tx.Purpose = extract.Clean(tail[:loc[0]])
		tx.ReferenceDebit = fmt.Sprintf("(%s)", tail[loc[2]:loc[3]])
		tx.Reclamation = tail[loc[4]:loc[5]]
		return
	}
	tx.Purpose = extract.Clean(tail)
}

// modelReference renders a "(model) number" reference, or "" when both parts
// are blank.
func modelReference(mod, number string) string {
	mod, number = strings.TrimSpace(mod), strings.TrimSpace(number)
	if mod == "" && number == "" {
		return ""
	}
	return extract.Clean(fmt.Sprintf("(%s) %s", mod, number))
}
