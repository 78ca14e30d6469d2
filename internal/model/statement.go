package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when a statement does not print its currency.
const DefaultCurrency = "EUR"

// Header holds the statement-level fields.
type Header struct {
	BankCode        string              `json:"bank_code"`
	BankName        string              `json:"bank_name"`
	AccountNumber   string              `json:"account_number,omitempty"`
	IBAN            string              `json:"iban,omitempty"`
	StatementNumber string              `json:"statement_number,omitempty"`
	StatementDate   *time.Time          `json:"statement_date"`
	PeriodStart     *time.Time          `json:"period_start"`
	PeriodEnd       *time.Time          `json:"period_end"`
	OpeningBalance  decimal.NullDecimal `json:"opening_balance"`
	ClosingBalance  decimal.NullDecimal `json:"closing_balance"`
	TotalDebit      decimal.NullDecimal `json:"total_debit"`
	TotalCredit     decimal.NullDecimal `json:"total_credit"`
	Currency        string              `json:"currency"`
	ClientName      string              `json:"client_name,omitempty"`
	ClientTaxID     string              `json:"client_tax_id,omitempty"`
}

// Statement is one parsed statement document. Values returned by an adapter
// are never modified afterwards.
type Statement struct {
	Header
	Transactions []Transaction `json:"transactions"`
}

// StatementBuilder accumulates header fields and transactions during parsing.
type StatementBuilder struct {
	Header Header
	txns   []Transaction
}

// NewStatementBuilder starts an empty statement for bank.
func NewStatementBuilder(bank Bank) *StatementBuilder {
	return &StatementBuilder{Header: Header{
		BankCode: bank.Code,
		BankName: bank.Name,
		Currency: DefaultCurrency,
	}}
}

// Add appends tx if it moves money. Rows whose number is missing or does not
// follow the previous row are renumbered so numbers stay strictly increasing.
// It reports whether the row was kept.
func (b *StatementBuilder) Add(tx Transaction) bool {
	tx.normalize()
	if !tx.HasAmount() {
		return false
	}
	if last := b.lastRow(); tx.RowNumber <= last {
		tx.RowNumber = last + 1
	}
	b.txns = append(b.txns, tx)
	return true
}

// Len returns the number of transactions kept so far.
func (b *StatementBuilder) Len() int { return len(b.txns) }

// Update applies fn to every kept transaction in order. Rows left without an
// amount are removed.
func (b *StatementBuilder) Update(fn func(tx *Transaction)) {
	kept := b.txns[:0]
	for i := range b.txns {
		tx := b.txns[i]
		fn(&tx)
		tx.normalize()
		if tx.HasAmount() {
			kept = append(kept, tx)
		}
	}
	b.txns = kept
}

// Build returns the finished statement.
func (b *StatementBuilder) Build() Statement {
	h := b.Header
	if h.Currency == "" {
		h.Currency = DefaultCurrency
	}
	txns := make([]Transaction, len(b.txns))
	copy(txns, b.txns)
	return Statement{Header: h, Transactions: txns}
}

func (b *StatementBuilder) lastRow() int {
	if len(b.txns) == 0 {
		return 0
	}
	return b.txns[len(b.txns)-1].RowNumber
}
