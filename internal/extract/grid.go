package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/model"
)

// Field names a transaction attribute a grid column can carry.
type Field int

const (
	Seq Field = iota
	Date
	ValueDate
	BookingDate
	Party
	Bank
	Debit
	Credit
	Code
	Purpose
	RefDebit
	RefCredit
	Reclamation
)

// Columns maps fields to zero-based column indexes.
type Columns map[Field]int

// Grid maps table rows to transactions by column position.
type Grid struct {
	Columns Columns
	// Amount parses the debit and credit cells.
	Amount func(string) decimal.NullDecimal
	// Date finds a date inside a date cell.
	Date func(string) *time.Time
	// Skip consumes header, separator and summary rows. Rows it reports are
	// never mapped.
	Skip func(row []string) bool
	// Accept reports whether a remaining row is a transaction. When nil, any
	// row with a non-empty first cell is accepted.
	Accept func(row []string) bool
	// Party parses the counterparty cell. Defaults to SplitParty.
	Party func(cell string, tx *model.Transaction)
	// Refine applies bank-specific cell parsing after positional mapping.
	Refine func(row []string, tx *model.Transaction)
}

// Collect walks every row of tables and adds the transactions it maps.
func (g Grid) Collect(tables []layout.Table, b *model.StatementBuilder) {
	for _, t := range tables {
		for _, row := range t {
			if tx, ok := g.Transaction(row); ok {
				b.Add(tx)
			}
		}
	}
}

// Transaction maps one row. It reports false for skipped rows and for rows
// that move no money.
func (g Grid) Transaction(row []string) (model.Transaction, bool) {
	if len(row) == 0 {
		return model.Transaction{}, false
	}
	if g.Skip != nil && g.Skip(row) {
		return model.Transaction{}, false
	}
	accept := g.Accept
	if accept == nil {
		accept = func(r []string) bool { return strings.TrimSpace(r[0]) != "" }
	}
	if !accept(row) {
		return model.Transaction{}, false
	}

	var tx model.Transaction
	cell := func(f Field) (string, bool) {
		i, ok := g.Columns[f]
		if !ok {
			return "", false
		}
		return strings.TrimSpace(layout.Cell(row, i)), true
	}

	if s, ok := cell(Seq); ok {
		if n, err := strconv.Atoi(s); err == nil {
			tx.RowNumber = n
		}
	}
	if g.Date != nil {
		if s, ok := cell(Date); ok {
			tx.SetDates(g.Date(s))
		}
		if s, ok := cell(ValueDate); ok {
			tx.ValueDate = g.Date(s)
		}
		if s, ok := cell(BookingDate); ok {
			tx.BookingDate = g.Date(s)
		}
	}
	if s, ok := cell(Party); ok {
		party := g.Party
		if party == nil {
			party = SplitParty
		}
		party(s, &tx)
	}
	if g.Amount != nil {
		if s, ok := cell(Debit); ok {
			tx.Debit = g.Amount(FirstLine(s))
		}
		if s, ok := cell(Credit); ok {
			tx.Credit = g.Amount(FirstLine(s))
		}
	}
	if s, ok := cell(Bank); ok {
		tx.CounterpartyBank = Clean(s)
	}
	if s, ok := cell(Code); ok {
		tx.PaymentCode = s
	}
	if s, ok := cell(Purpose); ok {
		tx.Purpose = Clean(s)
	}
	if s, ok := cell(RefDebit); ok {
		tx.ReferenceDebit = Clean(s)
	}
	if s, ok := cell(RefCredit); ok {
		tx.ReferenceCredit = Clean(s)
	}
	if s, ok := cell(Reclamation); ok {
		tx.Reclamation = Clean(s)
	}

	if g.Refine != nil {
		g.Refine(row, &tx)
	}
	if !tx.HasAmount() {
		return model.Transaction{}, false
	}
	return tx, true
}

var accountLine = regexp.MustCompile(`^\d[\d-]*-[\d-]*\d$|^\d{13,}$`)

// IsAccount reports whether s is a pure digit-and-dash account identifier.
func IsAccount(s string) bool {
	return accountLine.MatchString(strings.TrimSpace(s))
}

// SplitParty classifies each line of a counterparty cell: account-shaped
// lines set the account, the others join into the name.
func SplitParty(cell string, tx *model.Transaction) {
	var names []string
	for _, l := range SplitLines(cell) {
		if IsAccount(l) {
			tx.CounterpartyAccount = l
			continue
		}
		names = append(names, l)
	}
	tx.Counterparty = Clean(strings.Join(names, " "))
}

// SplitLines returns the trimmed non-empty lines of a multi-line cell.
func SplitLines(cell string) []string {
	var out []string
	for _, l := range strings.Split(cell, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// FirstLine returns the first non-empty line of a cell.
func FirstLine(cell string) string {
	if lines := SplitLines(cell); len(lines) > 0 {
		return lines[0]
	}
	return ""
}

// Clean collapses runs of whitespace into single spaces.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var codePrefix = regexp.MustCompile(`(?s)^(\d{3})\s+(.*)$`)

// SplitCode separates a leading three-digit payment code from the text after it.
func SplitCode(s string) (code, rest string) {
	s = strings.TrimSpace(s)
	if m := codePrefix.FindStringSubmatch(s); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return "", s
}
