package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/layout/layouttest"
)

var zapadDailyHeader = []string{
	"IZVOD RAČUNA - broj 2 za dan 03.01.2026.",
	"Klijent: GLOBEX DOO Žiro račun: 570-0000000012345-67",
	"JMBG/PIB: 03000002",
	"Valuta: 978 EUR",
	"Rbr. Sifra Broj trans Naziv Racun Duguje Potrazuje Saldo",
}

func zapadDailyFixture(lines ...string) *layout.Document {
	return layouttest.TextDoc(append(append([]string{}, zapadDailyHeader...), lines...)...)
}

func zapadDailyDoc() *layout.Document {
	return zapadDailyFixture(
		`1. 56218282 Zapad banka AD 570-0000000057001-31 58.80 7,588.45`,
		`OVH SAS\2, rue Kellermann`,
		`2. 56218290 ACME DOO 510-0000000000001-22 100.00 0.00 7,488.45`,
		"Invoice 12",
		"UKUPNO: 158.80 0.00 7,488.45",
		"Prethodno stanje: 7,647.25",
		"Ukupni promet - duguje: 158.80",
		"Ukupni promet - potražuje: 0.00",
		"Krajnje stanje: 7,488.45",
	)
}

func TestZapad_DailyHeader(t *testing.T) {
	stmt, err := (&ZapadParser{}).parseDocument(zapadDailyDoc())
	require.NoError(t, err)

	assert.Equal(t, "2", stmt.StatementNumber)
	require.NotNil(t, stmt.StatementDate)
	assert.Equal(t, day(2026, 1, 3), *stmt.StatementDate)
	assert.Equal(t, "GLOBEX DOO", stmt.ClientName)
	assert.Equal(t, "03000002", stmt.ClientTaxID)
	assert.Equal(t, "570-0000000012345-67", stmt.AccountNumber)
	assert.Equal(t, "EUR", stmt.Currency)

	assert.Equal(t, "7647.25", fixed(stmt.OpeningBalance))
	assert.Equal(t, "7488.45", fixed(stmt.ClosingBalance))
	assert.Equal(t, "158.80", fixed(stmt.TotalDebit))
	assert.Equal(t, "0.00", fixed(stmt.TotalCredit))
}

func TestZapad_DailyTransactions(t *testing.T) {
	stmt, err := (&ZapadParser{}).parseDocument(zapadDailyDoc())
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)

	tx := stmt.Transactions[0]
	assert.Equal(t, 1, tx.RowNumber)
	assert.Equal(t, "56218282", tx.PaymentCode)
	assert.Equal(t, "Zapad banka AD", tx.Counterparty)
	assert.Equal(t, "570-0000000057001-31", tx.CounterpartyAccount)
	assert.Equal(t, "58.80", fixed(tx.Debit))
	assert.False(t, tx.Credit.Valid)
	assert.Equal(t, `OVH SAS\2, rue Kellermann`, tx.Purpose)
	require.NotNil(t, tx.ValueDate)
	assert.Equal(t, day(2026, 1, 3), *tx.ValueDate)
	assert.Equal(t, day(2026, 1, 3), *tx.BookingDate)

	tx = stmt.Transactions[1]
	assert.Equal(t, 2, tx.RowNumber)
	assert.Equal(t, "ACME DOO", tx.Counterparty)
	assert.Equal(t, "100.00", fixed(tx.Debit))
	assert.False(t, tx.Credit.Valid)
	assert.Equal(t, "Invoice 12", tx.Purpose)
}

func TestZapad_LineBlock(t *testing.T) {
	stmt, err := (&ZapadParser{}).parseDocument(zapadDailyFixture(
		"3. 77001122 ACME LTD 570-0000000099-10 25.00 1,200.00",
		"Invoice #4412",
		"UKUPNO: 25.00 0.00 1,200.00",
		"this line is outside any block",
	))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)

	tx := stmt.Transactions[0]
	assert.Equal(t, 3, tx.RowNumber)
	assert.Equal(t, "ACME LTD", tx.Counterparty)
	assert.Equal(t, "570-0000000099-10", tx.CounterpartyAccount)
	assert.Equal(t, "25.00", fixed(tx.Debit))
	assert.False(t, tx.Credit.Valid)
	assert.Equal(t, "Invoice #4412", tx.Purpose)
}

func TestZapad_CreditOnlyDayMovesBareRows(t *testing.T) {
	stmt, err := (&ZapadParser{}).parseDocument(zapadDailyFixture(
		"1. 56218282 BETA DOO 510-0000000000002-33 58.80 7,706.05",
		"Uplata",
		"2. 56218290 ACME DOO 510-0000000000001-22 0.00 100.00 7,806.05",
		"UKUPNO: 0.00 158.80 7,806.05",
		"Ukupni promet - duguje: 0.00",
		"Ukupni promet - potražuje: 158.80",
	))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)

	assert.False(t, stmt.Transactions[0].Debit.Valid)
	assert.Equal(t, "58.80", fixed(stmt.Transactions[0].Credit))
	assert.False(t, stmt.Transactions[1].Debit.Valid)
	assert.Equal(t, "100.00", fixed(stmt.Transactions[1].Credit))
}

func TestZapad_ExplicitColumnsKeepSide(t *testing.T) {
	stmt, err := (&ZapadParser{}).parseDocument(zapadDailyFixture(
		"1. 56218282 BETA DOO 510-0000000000002-33 58.80 7,706.05",
		"2. 56218290 ACME DOO 510-0000000000001-22 25.00 0.00 7,681.05",
		"Ukupni promet - duguje: 0.00",
		"Ukupni promet - potražuje: 58.80",
	))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)

	assert.Equal(t, "58.80", fixed(stmt.Transactions[0].Credit))
	assert.Equal(t, "25.00", fixed(stmt.Transactions[1].Debit))
	assert.False(t, stmt.Transactions[1].Credit.Valid)
}

func zapadPeriodDoc() *layout.Document {
	return layouttest.TextDoc(
		"ACCOUNT STATEMENT",
		"GLOBEX DOO ACCOUNT PERIOD",
		"IBAN: ME25 5700 0000 0012 3456 78",
		"JMBG/PIB: 03000002",
		"FROM: 01/02/2026 TO: 28/02/2026",
		"CURRENCY: EUR (978)",
		"INCOMING BALANCE: 1,000.00",
		"DETAILS: Invoice payment",
		"03/02/2026 04/02/2026",
		"250.00 0.00 750.00",
		"March services",
		"1234567 ACME DOO IBAN: ME25510000000000000122",
		"DETAILS: Incoming transfer",
		"05/02/2026",
		"0.00 1,500.50 2,250.50",
		"7654321 BETA DOO IBAN: ME25520000000000000133",
		"TOTAL TURNOVER EUR: 250.00 1,500.50",
		"OUTGOING BALANCE: 2,250.50",
	)
}

func TestZapad_PeriodHeader(t *testing.T) {
	stmt, err := (&ZapadParser{}).parseDocument(zapadPeriodDoc())
	require.NoError(t, err)

	assert.Equal(t, "GLOBEX DOO", stmt.ClientName)
	assert.Equal(t, "ME25570000000012345678", stmt.IBAN)
	assert.Equal(t, "570000000012345678", stmt.AccountNumber)
	assert.Equal(t, "03000002", stmt.ClientTaxID)
	require.NotNil(t, stmt.PeriodStart)
	require.NotNil(t, stmt.PeriodEnd)
	assert.Equal(t, day(2026, 2, 1), *stmt.PeriodStart)
	assert.Equal(t, day(2026, 2, 28), *stmt.PeriodEnd)
	assert.Equal(t, stmt.PeriodEnd, stmt.StatementDate)
	assert.Equal(t, "EUR", stmt.Currency)

	assert.Equal(t, "1000.00", fixed(stmt.OpeningBalance))
	assert.Equal(t, "2250.50", fixed(stmt.ClosingBalance))
	assert.Equal(t, "250.00", fixed(stmt.TotalDebit))
	assert.Equal(t, "1500.50", fixed(stmt.TotalCredit))
}

func TestZapad_PeriodTransactions(t *testing.T) {
	stmt, err := (&ZapadParser{}).parseDocument(zapadPeriodDoc())
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)

	tx := stmt.Transactions[0]
	assert.Equal(t, 1, tx.RowNumber)
	assert.Equal(t, "ACME DOO", tx.Counterparty)
	assert.Equal(t, "ME25510000000000000122", tx.CounterpartyAccount)
	assert.Equal(t, "250.00", fixed(tx.Debit))
	assert.False(t, tx.Credit.Valid)
	assert.Equal(t, "Invoice payment March services", tx.Purpose)
	require.NotNil(t, tx.ValueDate)
	require.NotNil(t, tx.BookingDate)
	assert.Equal(t, day(2026, 2, 3), *tx.ValueDate)
	assert.Equal(t, day(2026, 2, 4), *tx.BookingDate)

	tx = stmt.Transactions[1]
	assert.Equal(t, 2, tx.RowNumber)
	assert.Equal(t, "BETA DOO", tx.Counterparty)
	assert.False(t, tx.Debit.Valid)
	assert.Equal(t, "1500.50", fixed(tx.Credit))
	assert.Equal(t, "Incoming transfer", tx.Purpose)
	assert.Equal(t, day(2026, 2, 5), *tx.ValueDate)
	assert.Equal(t, day(2026, 2, 5), *tx.BookingDate)
}
