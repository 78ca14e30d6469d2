package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one statement line item.
type Transaction struct {
	RowNumber           int                 `json:"row_number"`
	ValueDate           *time.Time          `json:"value_date"`
	BookingDate         *time.Time          `json:"booking_date"`
	Debit               decimal.NullDecimal `json:"debit"`
	Credit              decimal.NullDecimal `json:"credit"`
	Counterparty        string              `json:"counterparty,omitempty"`
	CounterpartyAccount string              `json:"counterparty_account,omitempty"`
	CounterpartyBank    string              `json:"counterparty_bank,omitempty"`
	PaymentCode         string              `json:"payment_code,omitempty"`
	Purpose             string              `json:"purpose,omitempty"`
	ReferenceDebit      string              `json:"reference_debit,omitempty"`
	ReferenceCredit     string              `json:"reference_credit,omitempty"`
	Reclamation         string              `json:"reclamation,omitempty"`
	Fee                 decimal.NullDecimal `json:"fee"`
}

// HasAmount reports whether the row moves money on either side.
func (t Transaction) HasAmount() bool {
	return positive(t.Debit) || positive(t.Credit)
}

// SetDates assigns the same date to both value and booking date.
func (t *Transaction) SetDates(d *time.Time) {
	t.ValueDate = d
	t.BookingDate = d
}

// Amount returns the moving side and whether it is a debit.
func (t Transaction) Amount() (decimal.Decimal, bool) {
	if positive(t.Debit) {
		return t.Debit.Decimal, true
	}
	return t.Credit.Decimal, false
}

func positive(d decimal.NullDecimal) bool {
	return d.Valid && d.Decimal.IsPositive()
}

// normalize clears zero and negative sides so that a present amount is always
// strictly positive.
func (t *Transaction) normalize() {
	if !positive(t.Debit) {
		t.Debit = decimal.NullDecimal{}
	}
	if !positive(t.Credit) {
		t.Credit = decimal.NullDecimal{}
	}
	if t.Fee.Valid && !t.Fee.Decimal.IsPositive() {
		t.Fee = decimal.NullDecimal{}
	}
}
