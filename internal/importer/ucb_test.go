package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/layout/layouttest"
	"github.com/izvod-dev/izvod/internal/model"
)

func ucbDoc() *layout.Document {
	page := layouttest.NewPage().
		Lines(
			"Naziv: GLOBEX DOO Mjesto: Podgorica",
			"Broj partije: 560-0000000012345-67",
			"Izvod broj: 3 NA DAN 05.02.2026",
			"PIB: 03000002",
		).
		Table([][]string{
			{"Prethodno stanje", "Duguje", "Potražuje", "Novo stanje"},
			{"1,000.00", "250.00", "1,500.50", "2,250.50"},
		}).
		Table([][]string{
			{"RB", "Naziv i račun", "Datum", "Duguje", "Potražuje", "Šifra", "Svrha", "Poziv na broj", "Reklamacija"},
			{"1", "ACME DOO\nPodgorica 510000000000001", "2026.02.03", "250.00", "", "221", "Placanje fakture", "(97) 1122", "REK1"},
			{"2", "BETA DOO", "2026.02.04", "", "1,500.50", "153", "Uplata", "", ""},
			{"Ukupno", "", "", "250.00", "1,500.50", "", "", "", ""},
		}).
		Page()
	return layouttest.Doc(page)
}

func TestUCB_Header(t *testing.T) {
	stmt, err := (&UCBParser{}).parseDocument(ucbDoc())
	require.NoError(t, err)

	assert.Equal(t, "GLOBEX DOO", stmt.ClientName)
	assert.Equal(t, "560-0000000012345-67", stmt.AccountNumber)
	assert.Equal(t, "3", stmt.StatementNumber)
	assert.Equal(t, "03000002", stmt.ClientTaxID)
	require.NotNil(t, stmt.StatementDate)
	assert.Equal(t, day(2026, 2, 5), *stmt.StatementDate)

	assert.Equal(t, "1000.00", fixed(stmt.OpeningBalance))
	assert.Equal(t, "250.00", fixed(stmt.TotalDebit))
	assert.Equal(t, "1500.50", fixed(stmt.TotalCredit))
	assert.Equal(t, "2250.50", fixed(stmt.ClosingBalance))
}

func TestUCB_Transactions(t *testing.T) {
	stmt, err := (&UCBParser{}).parseDocument(ucbDoc())
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)

	tx := stmt.Transactions[0]
	assert.Equal(t, 1, tx.RowNumber)
	assert.Equal(t, "ACME DOO, Podgorica", tx.Counterparty)
	assert.Equal(t, "510000000000001", tx.CounterpartyAccount)
	assert.Equal(t, "250.00", fixed(tx.Debit))
	assert.False(t, tx.Credit.Valid)
	assert.Equal(t, "221", tx.PaymentCode)
	assert.Equal(t, "Placanje fakture", tx.Purpose)
	assert.Equal(t, "(97) 1122", tx.ReferenceCredit)
	assert.Equal(t, "REK1", tx.Reclamation)
	require.NotNil(t, tx.ValueDate)
	assert.Equal(t, day(2026, 2, 3), *tx.ValueDate)

	tx = stmt.Transactions[1]
	assert.Equal(t, 2, tx.RowNumber)
	assert.Equal(t, "BETA DOO", tx.Counterparty)
	assert.Equal(t, "1500.50", fixed(tx.Credit))
	assert.Equal(t, day(2026, 2, 4), *tx.BookingDate)
}

func TestUCB_PartyTrailingAccount(t *testing.T) {
	var tx model.Transaction
	(&UCBParser{}).party("ACME DOO\nBulevar 1, 123456789012345678", &tx)
	assert.Equal(t, "ACME DOO, Bulevar 1", tx.Counterparty)
	assert.Equal(t, "123456789012345678", tx.CounterpartyAccount)
}
