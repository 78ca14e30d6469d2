package importer

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izvod-dev/izvod/internal/layout"
	"github.com/izvod-dev/izvod/internal/layout/layouttest"
	"github.com/izvod-dev/izvod/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixed renders an amount with two decimals, or "" when absent.
func fixed(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

// documentParser is implemented by the PDF adapters.
type documentParser interface {
	Parser
	parseDocument(doc *layout.Document) (model.Statement, error)
}

func pdfParsers() []documentParser {
	return []documentParser{
		&HipotekarnaParser{}, &NLBParser{}, &PrvaParser{}, &UCBParser{},
		&LovcenParser{}, &ZapadParser{}, &ZiraatParser{}, &AdriaticParser{},
	}
}

func TestDefaultRegistry_AllBanks(t *testing.T) {
	r := DefaultRegistry()
	banks := r.Banks()
	require.Len(t, banks, 9)

	var codes []string
	for _, b := range banks {
		codes = append(codes, b.Code)
		require.NotNil(t, r.Get(b.Code))
		assert.Equal(t, b, r.Get(b.Code).Bank())
	}
	assert.Equal(t, []string{"520", "530", "535", "540", "560", "565", "570", "575", "580"}, codes)
	assert.Equal(t, model.Banks(), banks)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&UCBParser{})
	assert.PanicsWithValue(t, "duplicate parser for bank: 560", func() {
		r.Register(&UCBParser{})
	})
}

func TestRegistry_UnsupportedBank(t *testing.T) {
	stmt, err := DefaultRegistry().Parse("999", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedBank))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "999", pe.Bank)
	assert.Equal(t, "bank 999: no parser for bank", err.Error())
	assert.Empty(t, stmt.Transactions)
	assert.Empty(t, stmt.BankCode)
}

func TestRegistry_ParseErrorWrapsStructure(t *testing.T) {
	for _, b := range model.Banks() {
		stmt, err := DefaultRegistry().Parse(b.Code, []byte("not a statement"))
		require.Error(t, err, b.Code)
		assert.True(t, errors.Is(err, ErrStructure), b.Code)

		var pe *ParseError
		require.True(t, errors.As(err, &pe), b.Code)
		assert.Equal(t, b.Code, pe.Bank)
		assert.Empty(t, stmt.BankCode)
	}
}

func TestParseDocument_NoMarkers(t *testing.T) {
	doc := layouttest.TextDoc("Dear customer,", "thank you for banking with us.")
	for _, p := range pdfParsers() {
		_, err := p.parseDocument(doc)
		assert.ErrorIs(t, err, ErrStructure, p.Bank().Code)
	}
}

func TestParseDocument_EmptyDocument(t *testing.T) {
	for _, p := range pdfParsers() {
		_, err := p.parseDocument(&layout.Document{})
		assert.ErrorIs(t, err, ErrStructure, p.Bank().Code)
	}
}

// every adapter fixture, keyed by bank code
func fixtures() map[string]*layout.Document {
	return map[string]*layout.Document{
		"520": hipotekarnaDoc(),
		"530": nlbDoc(),
		"535": prvaDoc(),
		"560": ucbDoc(),
		"565": lovcenDoc(),
		"570": zapadDailyDoc(),
		"575": ziraatDoc(),
		"580": adriaticDoc(),
	}
}

func TestParseDocument_Invariants(t *testing.T) {
	docs := fixtures()
	for _, p := range pdfParsers() {
		code := p.Bank().Code
		doc, ok := docs[code]
		require.True(t, ok, code)

		first, err := p.parseDocument(doc)
		require.NoError(t, err, code)
		second, err := p.parseDocument(doc)
		require.NoError(t, err, code)
		assert.Equal(t, first, second, "parsing is repeatable for %s", code)

		assert.Equal(t, code, first.BankCode)
		assert.Equal(t, p.Bank().Name, first.BankName)
		assert.NotEmpty(t, first.Currency)
		require.NotEmpty(t, first.Transactions, code)

		last := 0
		for _, tx := range first.Transactions {
			assert.Greater(t, tx.RowNumber, last, code)
			last = tx.RowNumber
			assert.True(t, tx.HasAmount(), code)
			if tx.Debit.Valid {
				assert.True(t, tx.Debit.Decimal.IsPositive(), code)
			}
			if tx.Credit.Valid {
				assert.True(t, tx.Credit.Decimal.IsPositive(), code)
			}
		}
	}
}

func TestClientMatch(t *testing.T) {
	assert.Equal(t, "2", clientMatch(prvaTaxID, "PIB: 1 x PIB: 2"))
	assert.Equal(t, "1", clientMatch(prvaTaxID, "PIB: 1"))
	assert.Equal(t, "", clientMatch(prvaTaxID, "none"))
}

func TestTrimZeros(t *testing.T) {
	assert.Equal(t, "7", trimZeros("007"))
	assert.Equal(t, "0", trimZeros("000"))
	assert.Equal(t, "", trimZeros(""))
	assert.Equal(t, "120", trimZeros("120"))
}

func TestModelReference(t *testing.T) {
	assert.Equal(t, "() 03244822", modelReference("", "03244822"))
	assert.Equal(t, "(97) 11", modelReference(" 97 ", "11"))
	assert.Equal(t, "", modelReference(" ", ""))
}
