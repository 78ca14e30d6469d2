// Package output renders a parsed statement for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/izvod-dev/izvod/internal/model"
)

// Format names a rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const dateFormat = "2006-01-02"

// Write renders stmt in the given format.
func Write(w io.Writer, stmt model.Statement, format Format) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, stmt)
	case FormatCSV:
		return WriteCSV(w, stmt)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteJSON writes stmt as indented JSON.
func WriteJSON(w io.Writer, stmt model.Statement) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stmt); err != nil {
		return fmt.Errorf("encoding statement: %w", err)
	}
	return nil
}

// ReadJSON decodes a statement previously written by WriteJSON.
func ReadJSON(r io.Reader) (model.Statement, error) {
	var stmt model.Statement
	if err := json.NewDecoder(r).Decode(&stmt); err != nil {
		return model.Statement{}, fmt.Errorf("decoding statement: %w", err)
	}
	return stmt, nil
}

// Row is one transaction in the CSV rendering.
type Row struct {
	Bank                string `csv:"bank"`
	Account             string `csv:"account"`
	RowNumber           int    `csv:"row_number"`
	ValueDate           string `csv:"value_date"`
	BookingDate         string `csv:"booking_date"`
	Debit               string `csv:"debit"`
	Credit              string `csv:"credit"`
	Fee                 string `csv:"fee"`
	Currency            string `csv:"currency"`
	Counterparty        string `csv:"counterparty"`
	CounterpartyAccount string `csv:"counterparty_account"`
	CounterpartyBank    string `csv:"counterparty_bank"`
	PaymentCode         string `csv:"payment_code"`
	Purpose             string `csv:"purpose"`
	ReferenceDebit      string `csv:"reference_debit"`
	ReferenceCredit     string `csv:"reference_credit"`
	Reclamation         string `csv:"reclamation"`
}

// Rows flattens the statement's transactions.
func Rows(stmt model.Statement) []Row {
	rows := make([]Row, 0, len(stmt.Transactions))
	for _, tx := range stmt.Transactions {
		rows = append(rows, Row{
			Bank:                stmt.BankCode,
			Account:             stmt.AccountNumber,
			RowNumber:           tx.RowNumber,
			ValueDate:           formatDate(tx.ValueDate),
			BookingDate:         formatDate(tx.BookingDate),
			Debit:               formatAmount(tx.Debit),
			Credit:              formatAmount(tx.Credit),
			Fee:                 formatAmount(tx.Fee),
			Currency:            stmt.Currency,
			Counterparty:        tx.Counterparty,
			CounterpartyAccount: tx.CounterpartyAccount,
			CounterpartyBank:    tx.CounterpartyBank,
			PaymentCode:         tx.PaymentCode,
			Purpose:             tx.Purpose,
			ReferenceDebit:      tx.ReferenceDebit,
			ReferenceCredit:     tx.ReferenceCredit,
			Reclamation:         tx.Reclamation,
		})
	}
	return rows
}

// WriteCSV writes one row per transaction, header included.
func WriteCSV(w io.Writer, stmt model.Statement) error {
	if err := gocsv.Marshal(Rows(stmt), w); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(dateFormat)
}

func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
