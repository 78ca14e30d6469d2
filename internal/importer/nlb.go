package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/izvod-dev/izvod/internal/extract"
	"github.com/izvod-dev/izvod/internal/glyph"
	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/model"
)

// NLBParser parses NLB Banka statements. The PDF fonts use a private
// encoding, so glyphs are decoded before words are assembled. The
// transaction table has no rulings: a block is keyed by its row-number line
// and the counterparty name is printed above it.
type NLBParser struct{}

// Decoded glyphs are tightly spaced; bold ones are wider than they advance.
// Words break on gaps only, so a printed name stays one word.
var nlbWords = layout.Options{XTolerance: 2, YTolerance: 4, MinWidth: 3, KeepBlanks: true}

// Column positions of the transaction table and the header summary band.
const (
	nlbLookbehind = 2
	nlbRowNumberX = 45
	nlbNameX      = 210
	nlbDebitX     = 300
	nlbCreditX    = 380
	nlbAmountEndX = 413
	nlbCodeX      = 445
	nlbPurposeX   = 650
	nlbRefX       = 740
	nlbClientTop  = 120
	nlbSummaryTop = 180
	nlbSummaryEnd = 260
)

var (
	nlbNumber   = regexp.MustCompile(`IZVOD\s*BR\.\s*(\d+)`)
	nlbDate     = regexp.MustCompile(`DANA\s+(\d{2}\.\d{2}\.\d{4})`)
	nlbClient   = regexp.MustCompile(`^[A-Z][A-Z\s]+$`)
	nlbOwn      = regexp.MustCompile(`530-\d{13}-\d{2}`)
	nlbTaxID    = regexp.MustCompile(`(?i)poreski\s*broj\s*(\d+)`)
	nlbAmounts  = regexp.MustCompile(`\d+\.\d{2}`)
	nlbAmount   = regexp.MustCompile(`^\d+\.\d{2}$`)
	nlbFee      = regexp.MustCompile(`Naknada\s*([\d.]+)`)
	nlbDayToken = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}`)
	nlbAccount  = regexp.MustCompile(`^\d{3}-\d{13}-\d{2}$`)
	nlbBankRef  = regexp.MustCompile(`^\d{3}-`)
	nlbDigits   = regexp.MustCompile(`^\d+$`)
	nlbMarkers  = []*regexp.Regexp{nlbNumber, nlbOwn, regexp.MustCompile(`PROMJENE`)}

	// words of the client block that are not the client's name
	nlbNotClient = map[string]bool{"IZVOD": true, "ZA": true, "STANJE": true, "NLB": true}

	// lower-case fragments of the table's column titles
	nlbColumnTitles = []string{
		"nal.", "naziv", "sjedišt", "šifra", "datum", "knjižen", "zaduženje",
		"odobrenje", "iznos", "svrha", "poziv", "podaci", "reklamacij",
	}
)

// Bank returns the bank this parser reads.
func (p *NLBParser) Bank() model.Bank { return model.NLB }

// Parse reads an NLB PDF statement.
func (p *NLBParser) Parse(data []byte) (model.Statement, error) {
	doc, err := loadPDF(data)
	if err != nil {
		return model.Statement{}, err
	}
	return p.parseDocument(doc)
}

func (p *NLBParser) parseDocument(doc *layout.Document) (model.Statement, error) {
	dec := glyph.NLB()
	pages := make([][]layout.Line, len(doc.Pages))
	var text []string
	for i, pg := range doc.Pages {
		pages[i] = dec.Page(pg).Lines(nlbWords)
		text = append(text, layout.LinesText(pages[i]))
	}
	if err := requireAnchor(strings.Join(text, "\n"), nlbMarkers...); err != nil {
		return model.Statement{}, err
	}

	b := model.NewStatementBuilder(p.Bank())
	if len(pages) > 0 {
		p.header(pages[0], &b.Header)
	}
	for _, lines := range pages {
		p.transactions(lines, b)
	}
	return b.Build(), nil
}

func (p *NLBParser) header(lines []layout.Line, h *model.Header) {
	for _, l := range lines {
		text := l.Text()
		if n := submatch(nlbNumber, text, 1); n != "" {
			h.StatementNumber = n
		}
		if d := submatch(nlbDate, text, 1); d != "" {
			h.StatementDate = dmy(d)
		}
		if l.Top < nlbClientTop {
			for _, w := range l.Words {
				if w.X < nlbNameX && nlbClient.MatchString(w.Text) && len(w.Text) > 2 && !nlbNotClient[w.Text] {
					h.ClientName = extract.Clean(w.Text)
				}
			}
		}
		for _, w := range l.Words {
			if nlbOwn.MatchString(w.Text) {
				h.AccountNumber = w.Text
			}
		}
		if id := submatch(nlbTaxID, text, 1); id != "" {
			h.ClientTaxID = id
		}

		amounts := nlbAmounts.FindAllString(text, -1)
		if len(amounts) >= 3 && l.Top > nlbSummaryTop && l.Top < nlbSummaryEnd {
			h.OpeningBalance = intl(amounts[0])
			h.TotalDebit = intl(amounts[1])
			if len(amounts) >= 4 {
				h.TotalCredit = intl(amounts[2])
				h.ClosingBalance = intl(amounts[3])
			} else {
				h.ClosingBalance = intl(amounts[2])
			}
		}
	}
}

func (p *NLBParser) transactions(lines []layout.Line, b *model.StatementBuilder) {
	start := -1
	for i, l := range lines {
		if strings.Contains(strings.ToUpper(strings.ReplaceAll(l.Text(), " ", "")), "PROMJENE") {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return
	}
	data := lines[start:]

	for _, l := range data {
		if isNLBTotal(l) {
			if !b.Header.TotalDebit.Valid {
				b.Header.TotalDebit = intl(nlbAmounts.FindString(l.Text()))
			}
			break
		}
	}

	scan := extract.Blocks[layout.Line]{
		IsStart:    isNLBRow,
		IsTerminal: isNLBTotal,
		Lookbehind: nlbLookbehind,
	}
	for _, blk := range scan.Scan(data) {
		b.Add(p.transaction(blk))
	}
}

func isNLBRow(l layout.Line) bool {
	if len(l.Words) == 0 {
		return false
	}
	w := l.Words[0]
	if w.X >= nlbRowNumberX || !nlbDigits.MatchString(w.Text) {
		return false
	}
	n, err := strconv.Atoi(w.Text)
	return err == nil && n > 0
}

func isNLBTotal(l layout.Line) bool {
	return strings.Contains(l.Text(), "Ukupno")
}

func isNLBColumnTitle(text string) bool {
	lower := strings.ToLower(text)
	for _, t := range nlbColumnTitles {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func (p *NLBParser) transaction(blk extract.Block[layout.Line]) model.Transaction {
	var tx model.Transaction
	tx.RowNumber, _ = strconv.Atoi(blk.Head.Words[0].Text)

	for _, w := range blk.Head.Words[1:] {
		switch {
		case w.X < nlbAmountEndX:
			// counterparty, origin and amount continuations
		case w.X < nlbCodeX:
			if tx.PaymentCode == "" {
				tx.PaymentCode = w.Text
			}
		case w.X < nlbPurposeX:
			tx.Purpose = appendText(tx.Purpose, w.Text)
		case w.X < nlbRefX:
			tx.ReferenceDebit = w.Text
		default:
			tx.Reclamation += w.Text
		}
	}

	for _, l := range append(append([]layout.Line{}, blk.Lead...), blk.Body...) {
		text := l.Text()
		if isNLBColumnTitle(text) {
			continue
		}

		fee := strings.Contains(text, "Naknada")
		if fee {
			if m := nlbFee.FindStringSubmatch(text); m != nil {
				tx.Fee = intl(strings.TrimSuffix(m[1], "."))
			}
		}

		var name []string
		for _, w := range l.Words {
			if w.X < nlbNameX && !nlbDayToken.MatchString(w.Text) && !nlbAccount.MatchString(w.Text) && !nlbAmount.MatchString(w.Text) {
				name = append(name, w.Text)
			}
		}
		if extra := extract.Clean(strings.Join(name, " ")); extra != "" {
			if tx.Counterparty == "" {
				tx.Counterparty = extra
			} else if !nlbBankRef.MatchString(extra) {
				tx.Counterparty += " " + extra
			}
		}

		for _, w := range l.Words {
			switch {
			case !fee && nlbAmount.MatchString(w.Text) && w.X > nlbDebitX && w.X < nlbCreditX:
				tx.Debit = intl(w.Text)
			case !fee && nlbAmount.MatchString(w.Text) && w.X >= nlbCreditX && w.X < nlbAmountEndX:
				tx.Credit = intl(w.Text)
			case nlbDayToken.MatchString(w.Text):
				tx.SetDates(dmy(w.Text))
			case nlbAccount.MatchString(w.Text):
				tx.CounterpartyAccount = w.Text
			}
		}
	}
	tx.Purpose = extract.Clean(tx.Purpose)
	return tx
}
