package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/izvod-dev/izvod/internal/extract"
	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/locale"
	"github.com/izvod-dev/izvod/internal/model"
)

// ZapadParser parses Zapad Banka statements. The bank issues two layouts:
// a daily statement in Montenegrin ("IZVOD RAČUNA") and an English period
// statement ("ACCOUNT STATEMENT").
type ZapadParser struct{}

const (
	zapadPeriodTitle = "ACCOUNT STATEMENT"
	// zapadProbe is how much of the first page is searched for the title.
	zapadProbe = 500
)

var (
	zapadNumber    = regexp.MustCompile(`IZVOD\s+RAČUNA\s*-\s*broj\s+(\d+)`)
	zapadDate      = regexp.MustCompile(`za\s+dan\s+(\d{2}\.\d{2}\.\d{4})`)
	zapadClient    = regexp.MustCompile(`Klijent:\s*(.+?)(?:\s{2,}|Žiro)`)
	zapadTaxID     = regexp.MustCompile(`JMBG/PIB:\s*(\d+)`)
	zapadAccount   = regexp.MustCompile(`Žiro\s+račun:\s*([\d-]+)`)
	zapadCurrency  = regexp.MustCompile(`Valuta:\s*\d+\s+(\w+)`)
	zapadOpening   = regexp.MustCompile(`Prethodno\s+stanje:\s*([\d,]+\.\d{2})`)
	zapadClosing   = regexp.MustCompile(`Krajnje\s+stanje:\s*([\d,]+\.\d{2})`)
	zapadDebitSum  = regexp.MustCompile(`Ukupni\s+promet\s*-\s*duguje:\s*([\d,]+\.\d{2})`)
	zapadCreditSum = regexp.MustCompile(`Ukupni\s+promet\s*-\s*potražuje:\s*([\d,]+\.\d{2})`)

	// A bare row prints one amount and the running balance; a full row prints
	// debit, credit and balance.
	zapadBare = regexp.MustCompile(`^(\d+)\.\s+(\d+)\s+(.+?)\s+(\d{3}-\d+(?:-\d+)?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s*$`)
	zapadFull = regexp.MustCompile(`^(\d+)\.\s+(\d+)\s+(.+?)\s+(\d{3}-\d+(?:-\d+)?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s*$`)
	zapadLoose = regexp.MustCompile(`^\d+\.\s+\d+\s+`)
	zapadStops = []string{"UKUPNO:", "Prethodno stanje:", "Krajnje stanje:", "Ovaj dokument"}

	zapadDaily = extract.Blocks[string]{
		IsStart: func(l string) bool { return zapadBare.MatchString(l) || zapadFull.MatchString(l) },
		IsTerminal: func(l string) bool {
			if zapadLoose.MatchString(l) {
				return true
			}
			for _, s := range zapadStops {
				if strings.HasPrefix(l, s) {
					return true
				}
			}
			return false
		},
	}

	zapadIBAN       = regexp.MustCompile(`IBAN:\s*(ME[\d ]+)`)
	zapadFrom       = regexp.MustCompile(`FROM:\s*(\d{2}/\d{2}/\d{4})`)
	zapadTo         = regexp.MustCompile(`TO:\s*(\d{2}/\d{2}/\d{4})`)
	zapadIncoming   = regexp.MustCompile(`INCOMING\s+BALANCE:\s*([\d,]+\.\d{2})`)
	zapadOutgoing   = regexp.MustCompile(`OUTGOING\s+BALANCE:\s*([\d,]+\.\d{2})`)
	zapadTurnover   = regexp.MustCompile(`TOTAL\s+TURNOVER\s+(?:EUR\(?\d*\)?:?)?\s*([\d,]+\.\d{2})\s+([\d,]+\.\d{2})`)
	zapadPeriodCur  = regexp.MustCompile(`CURRENCY:\s*(\w+)\s*\((\d+)\)`)
	zapadNameTail   = regexp.MustCompile(`\s+(?:ACCOUNT\s+PERIOD|ACCOUNT|PERIOD)\s*$`)
	zapadDetails    = regexp.MustCompile(`DETAILS:\s*(.*)$`)
	zapadAmounts    = regexp.MustCompile(`([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})`)
	zapadTransNo    = regexp.MustCompile(`\b(\d{7,8})\b`)
	zapadCounterIB  = regexp.MustCompile(`IBAN:\s*(\S+)`)
	zapadSlashStart = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
	zapadLetters    = regexp.MustCompile(`[A-Za-z]`)
	zapadPeriodStop = regexp.MustCompile(`^(?:TOTAL TURNOVER|OUTGOING BALANCE|This document)|^\d{2}/\d{2}/\d{4}\s+\d{2}:\d{2}`)

	zapadPeriod = extract.Blocks[string]{
		IsStart:    func(l string) bool { return strings.Contains(l, "DETAILS:") },
		IsTerminal: zapadPeriodStop.MatchString,
	}

	zapadDailyMarkers  = []*regexp.Regexp{regexp.MustCompile(`IZVOD\s+RAČUNA`), regexp.MustCompile(`Žiro\s+račun`)}
	zapadPeriodMarkers = []*regexp.Regexp{regexp.MustCompile(`ACCOUNT\s+STATEMENT`)}
)

// Bank returns the bank this parser reads.
func (p *ZapadParser) Bank() model.Bank { return model.Zapad }

// Parse reads a Zapad PDF statement of either layout.
func (p *ZapadParser) Parse(data []byte) (model.Statement, error) {
	doc, err := loadPDF(data)
	if err != nil {
		return model.Statement{}, err
	}
	return p.parseDocument(doc)
}

func (p *ZapadParser) parseDocument(doc *layout.Document) (model.Statement, error) {
	probe := firstPage(doc).Text(layout.DefaultOptions)
	if len(probe) > zapadProbe {
		probe = probe[:zapadProbe]
	}
	if strings.Contains(probe, zapadPeriodTitle) {
		return p.parsePeriod(doc)
	}
	return p.parseDaily(doc)
}

func (p *ZapadParser) parseDaily(doc *layout.Document) (model.Statement, error) {
	lines := pageLines(doc, layout.DefaultOptions)
	text := strings.Join(lines, "\n")
	if err := requireAnchor(text, zapadDailyMarkers...); err != nil {
		return model.Statement{}, err
	}

	b := model.NewStatementBuilder(p.Bank())
	h := &b.Header
	h.StatementNumber = submatch(zapadNumber, text, 1)
	h.StatementDate = dmy(submatch(zapadDate, text, 1))
	h.ClientName = extract.Clean(submatch(zapadClient, text, 1))
	h.ClientTaxID = submatch(zapadTaxID, text, 1)
	h.AccountNumber = submatch(zapadAccount, text, 1)
	if c := submatch(zapadCurrency, text, 1); c != "" {
		h.Currency = c
	}
	h.OpeningBalance = intl(submatch(zapadOpening, text, 1))
	h.ClosingBalance = intl(submatch(zapadClosing, text, 1))
	h.TotalDebit = intl(submatch(zapadDebitSum, text, 1))
	h.TotalCredit = intl(submatch(zapadCreditSum, text, 1))

	var bare []bool
	for _, blk := range zapadDaily.Scan(lines) {
		tx, isBare := p.dailyTransaction(blk, h)
		if b.Add(tx) {
			bare = append(bare, isBare)
		}
	}

	// A bare row does not say which side its amount is on. It is read as a
	// debit unless the totals show the day had credits only. Rows printed
	// with both columns already carry their side and are never moved.
	if isZero(h.TotalDebit) && positiveAmount(h.TotalCredit) {
		i := 0
		b.Update(func(tx *model.Transaction) {
			if bare[i] {
				tx.Debit, tx.Credit = decimal.NullDecimal{}, tx.Debit
			}
			i++
		})
	}
	return b.Build(), nil
}

func (p *ZapadParser) dailyTransaction(blk extract.Block[string], h *model.Header) (model.Transaction, bool) {
	var tx model.Transaction
	bare := false
	if m := zapadFull.FindStringSubmatch(blk.Head); m != nil {
		p.dailyHead(m, &tx)
		tx.Debit = intl(m[5])
		tx.Credit = intl(m[6])
	} else {
		m := zapadBare.FindStringSubmatch(blk.Head)
		p.dailyHead(m, &tx)
		tx.Debit = intl(m[5])
		bare = true
	}
	tx.Purpose = extract.Clean(strings.Join(blk.Body, " "))
	tx.SetDates(h.StatementDate)
	return tx, bare
}

func (p *ZapadParser) dailyHead(m []string, tx *model.Transaction) {
	tx.RowNumber, _ = strconv.Atoi(m[1])
	tx.PaymentCode = m[2]
	tx.Counterparty = extract.Clean(m[3])
	tx.CounterpartyAccount = m[4]
}

func (p *ZapadParser) parsePeriod(doc *layout.Document) (model.Statement, error) {
	first := firstPage(doc).Text(layout.DefaultOptions)
	if err := requireAnchor(first, zapadPeriodMarkers...); err != nil {
		return model.Statement{}, err
	}

	b := model.NewStatementBuilder(p.Bank())
	h := &b.Header
	p.periodHeader(first, h)

	last := doc.Pages[len(doc.Pages)-1].Text(layout.DefaultOptions)
	h.ClosingBalance = intl(submatch(zapadOutgoing, last, 1))
	if m := zapadTurnover.FindStringSubmatch(last); m != nil {
		h.TotalDebit = intl(m[1])
		h.TotalCredit = intl(m[2])
	}

	// blocks never span pages
	for _, page := range doc.Pages {
		var lines []string
		for _, l := range page.Lines(layout.DefaultOptions) {
			if s := strings.TrimSpace(l.Text()); s != "" {
				lines = append(lines, s)
			}
		}
		for _, blk := range zapadPeriod.Scan(lines) {
			if tx, ok := p.periodTransaction(blk.Lines()); ok {
				b.Add(tx)
			}
		}
	}
	return b.Build(), nil
}

func (p *ZapadParser) periodHeader(text string, h *model.Header) {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if !strings.Contains(l, zapadPeriodTitle) {
			continue
		}
		if i+1 < len(lines) {
			name := strings.TrimSpace(lines[i+1])
			h.ClientName = extract.Clean(zapadNameTail.ReplaceAllString(name, ""))
		}
		break
	}

	if iban := strings.ReplaceAll(submatch(zapadIBAN, text, 1), " ", ""); iban != "" {
		h.IBAN = iban
		if len(iban) > 4 {
			h.AccountNumber = iban[4:]
		} else {
			h.AccountNumber = iban
		}
	}
	h.ClientTaxID = submatch(zapadTaxID, text, 1)
	h.PeriodStart = slash(submatch(zapadFrom, text, 1))
	h.PeriodEnd = slash(submatch(zapadTo, text, 1))
	h.StatementDate = h.PeriodEnd
	h.OpeningBalance = intl(submatch(zapadIncoming, text, 1))
	if c := submatch(zapadPeriodCur, text, 1); c != "" {
		h.Currency = c
	}
}

func (p *ZapadParser) periodTransaction(lines []string) (model.Transaction, bool) {
	var tx model.Transaction
	block := strings.Join(lines, "\n")

	found := false
	for _, l := range lines {
		if m := zapadAmounts.FindStringSubmatch(l); m != nil {
			tx.Debit = intl(m[1])
			tx.Credit = intl(m[2])
			found = true
			break
		}
	}
	if !found {
		return tx, false
	}

	dates := locale.DMYSlash.FindAll(block)
	if len(dates) > 0 {
		tx.ValueDate = &dates[0]
		tx.BookingDate = &dates[0]
	}
	if len(dates) > 1 {
		tx.BookingDate = &dates[1]
	}

	transNo := submatch(zapadTransNo, block, 1)
	tx.CounterpartyAccount = submatch(zapadCounterIB, block, 1)
	if transNo != "" {
		nameRe := regexp.MustCompile(regexp.QuoteMeta(transNo) + `\s+(.+?)\s+IBAN:`)
		for _, l := range lines {
			if !strings.Contains(l, transNo) {
				continue
			}
			if name := extract.Clean(submatch(nameRe, l, 1)); zapadLetters.MatchString(name) {
				tx.Counterparty = name
			}
			break
		}
	}

	purpose := submatch(zapadDetails, lines[0], 1)
	for _, l := range lines[1:] {
		switch {
		case zapadSlashStart.MatchString(l),
			zapadAmounts.MatchString(l),
			strings.Contains(l, "IBAN:"),
			transNo != "" && strings.Contains(l, transNo):
			continue
		}
		purpose = appendText(purpose, l)
	}
	tx.Purpose = extract.Clean(purpose)
	return tx, true
}

func isZero(d decimal.NullDecimal) bool { return d.Valid && d.Decimal.IsZero() }

func positiveAmount(d decimal.NullDecimal) bool { return d.Valid && d.Decimal.IsPositive() }
