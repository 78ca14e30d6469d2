package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/layout/layouttest"
)

func nlbPage() *layouttest.Builder {
	return layouttest.NewPage().
		At(20, 30, "GLOBEX DOO").
		At(400, 30, "530-0000000030153-55").
		At(20, 60, "IZVOD BR. 7").
		At(20, 130, "ZA PROMJENU SREDSTAVA NA RACUNU DANA 05.02.2026").
		At(20, 140, "poreski broj 02345678").
		At(20, 200, "109.66").At(120, 200, "2.00").At(220, 200, "0.00").
		At(320, 200, "107.66").At(420, 200, "1").At(470, 200, "0").
		At(20, 280, "PROMJENE NA RACUNU").
		At(20, 300, "Nal. br.").At(100, 300, "Naziv i sjedište")
}

func nlbDoc() *layout.Document {
	page := nlbPage().
		// first transaction: name and debit above the row number
		At(50, 320, "ALFA DOO").
		At(216, 332, "PODGORICA").At(341, 332, "2.00").
		At(20, 344, "1").At(420, 344, "221").At(450, 344, "Uplata racuna").
		At(660, 344, "00-123").At(750, 344, "RK1").
		At(216, 356, "05.02.2026").At(300, 356, "Naknada 0.50").
		At(50, 368, "510-0000000011111-22").
		// second transaction: credit side
		At(50, 392, "BETA").
		At(385, 404, "10.00").
		At(20, 416, "2").
		At(216, 428, "06.02.2026").
		At(20, 440, "Ukupno EURA 2.00").
		Page()
	return layouttest.Doc(page)
}

func TestNLB_Header(t *testing.T) {
	stmt, err := (&NLBParser{}).parseDocument(nlbDoc())
	require.NoError(t, err)

	assert.Equal(t, "GLOBEX DOO", stmt.ClientName)
	assert.Equal(t, "530-0000000030153-55", stmt.AccountNumber)
	assert.Equal(t, "7", stmt.StatementNumber)
	assert.Equal(t, "02345678", stmt.ClientTaxID)
	require.NotNil(t, stmt.StatementDate)
	assert.Equal(t, day(2026, 2, 5), *stmt.StatementDate)

	assert.Equal(t, "109.66", fixed(stmt.OpeningBalance))
	assert.Equal(t, "2.00", fixed(stmt.TotalDebit))
	assert.Equal(t, "0.00", fixed(stmt.TotalCredit))
	assert.Equal(t, "107.66", fixed(stmt.ClosingBalance))
}

func TestNLB_Transactions(t *testing.T) {
	stmt, err := (&NLBParser{}).parseDocument(nlbDoc())
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)

	tx := stmt.Transactions[0]
	assert.Equal(t, 1, tx.RowNumber)
	assert.Equal(t, "ALFA DOO", tx.Counterparty)
	assert.Equal(t, "510-0000000011111-22", tx.CounterpartyAccount)
	assert.Equal(t, "2.00", fixed(tx.Debit))
	assert.False(t, tx.Credit.Valid)
	assert.Equal(t, "0.50", fixed(tx.Fee))
	assert.Equal(t, "221", tx.PaymentCode)
	assert.Equal(t, "Uplata racuna", tx.Purpose)
	assert.Equal(t, "00-123", tx.ReferenceDebit)
	assert.Equal(t, "RK1", tx.Reclamation)
	require.NotNil(t, tx.ValueDate)
	assert.Equal(t, day(2026, 2, 5), *tx.ValueDate)
	assert.Equal(t, day(2026, 2, 5), *tx.BookingDate)

	tx = stmt.Transactions[1]
	assert.Equal(t, 2, tx.RowNumber)
	assert.Equal(t, "BETA", tx.Counterparty)
	assert.False(t, tx.Debit.Valid)
	assert.Equal(t, "10.00", fixed(tx.Credit))
	require.NotNil(t, tx.ValueDate)
	assert.Equal(t, day(2026, 2, 6), *tx.ValueDate)
}

func TestNLB_ThreeAmountSummary(t *testing.T) {
	page := layouttest.NewPage().
		At(20, 60, "IZVOD BR. 8").
		At(20, 200, "50.00").At(120, 200, "20.00").At(220, 200, "30.00").
		At(20, 280, "PROMJENE").
		At(341, 308, "20.00").
		At(20, 320, "1").
		At(20, 340, "Ukupno EURA 20.00").
		Page()
	stmt, err := (&NLBParser{}).parseDocument(layouttest.Doc(page))
	require.NoError(t, err)

	assert.Equal(t, "50.00", fixed(stmt.OpeningBalance))
	assert.Equal(t, "20.00", fixed(stmt.TotalDebit))
	assert.False(t, stmt.TotalCredit.Valid)
	assert.Equal(t, "30.00", fixed(stmt.ClosingBalance))
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "20.00", fixed(stmt.Transactions[0].Debit))
}

func TestNLB_TotalFromUkupnoLine(t *testing.T) {
	page := layouttest.NewPage().
		At(20, 60, "IZVOD BR. 9").
		At(20, 280, "PROMJENE").
		At(341, 308, "4.00").
		At(20, 320, "1").
		At(20, 340, "Ukupno EURA 4.00").
		Page()
	stmt, err := (&NLBParser{}).parseDocument(layouttest.Doc(page))
	require.NoError(t, err)
	assert.Equal(t, "4.00", fixed(stmt.TotalDebit))
}

func TestNLB_DecodesCodedGlyphs(t *testing.T) {
	// "IZVOD BR. 3" set in the bold face with font-internal codes
	codes := []int{4, 5, 6, 7, 8, 0, 9, 10, 11, 0, 27}
	page := layouttest.NewPage().Page()
	for i, c := range codes {
		g := layout.Glyph{X: 20 + float64(i)*6, Top: 60, Width: 6, Size: 9, Font: "ABCDEE+Calibri-Bold", CID: c}
		if c == 0 {
			g.Text = " "
		}
		page.Glyphs = append(page.Glyphs, g)
	}
	stmt, err := (&NLBParser{}).parseDocument(layouttest.Doc(page))
	require.NoError(t, err)
	assert.Equal(t, "3", stmt.StatementNumber)
	assert.Empty(t, stmt.Transactions)
}
