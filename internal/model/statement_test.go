package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestNewStatementBuilder_Defaults(t *testing.T) {
	stmt := NewStatementBuilder(NLB).Build()
	assert.Equal(t, "530", stmt.BankCode)
	assert.Equal(t, "NLB Banka", stmt.BankName)
	assert.Equal(t, "EUR", stmt.Currency)
	assert.NotNil(t, stmt.Transactions)
	assert.Empty(t, stmt.Transactions)
}

func TestAdd_DropsRowsWithoutAmount(t *testing.T) {
	b := NewStatementBuilder(UCB)

	assert.False(t, b.Add(Transaction{RowNumber: 1}))
	assert.False(t, b.Add(Transaction{RowNumber: 2, Debit: amt("0.00"), Credit: amt("0")}))
	assert.False(t, b.Add(Transaction{RowNumber: 3, Debit: amt("-4.00")}))
	assert.True(t, b.Add(Transaction{RowNumber: 4, Credit: amt("10.00"), Debit: amt("0.00")}))

	stmt := b.Build()
	require.Len(t, stmt.Transactions, 1)
	assert.False(t, stmt.Transactions[0].Debit.Valid)
	assert.Equal(t, "10.00", stmt.Transactions[0].Credit.Decimal.StringFixed(2))
}

func TestAdd_RowNumbersStrictlyIncreasing(t *testing.T) {
	b := NewStatementBuilder(Prva)
	for _, n := range []int{0, 0, 5, 5, 3, 9} {
		b.Add(Transaction{RowNumber: n, Debit: amt("1.00")})
	}

	var got []int
	for _, tx := range b.Build().Transactions {
		got = append(got, tx.RowNumber)
	}
	assert.Equal(t, []int{1, 2, 5, 6, 7, 9}, got)
}

func TestUpdate_MovesSides(t *testing.T) {
	b := NewStatementBuilder(Zapad)
	b.Add(Transaction{Debit: amt("25.00")})
	b.Add(Transaction{Debit: amt("5.00")})

	b.Update(func(tx *Transaction) {
		tx.Credit, tx.Debit = tx.Debit, decimal.NullDecimal{}
	})

	stmt := b.Build()
	require.Len(t, stmt.Transactions, 2)
	for _, tx := range stmt.Transactions {
		assert.False(t, tx.Debit.Valid)
		assert.True(t, tx.Credit.Valid)
	}
}

func TestBuild_ReturnsCopy(t *testing.T) {
	b := NewStatementBuilder(Erste)
	b.Add(Transaction{Debit: amt("1.00"), Purpose: "first"})
	stmt := b.Build()

	b.Add(Transaction{Debit: amt("2.00")})
	stmt.Transactions[0].Purpose = "changed"

	again := b.Build()
	assert.Len(t, stmt.Transactions, 1)
	assert.Len(t, again.Transactions, 2)
	assert.Equal(t, "first", again.Transactions[0].Purpose)
}

func TestTransaction_Amount(t *testing.T) {
	d, debit := Transaction{Debit: amt("3.50")}.Amount()
	assert.True(t, debit)
	assert.Equal(t, "3.50", d.StringFixed(2))

	c, debit := Transaction{Credit: amt("7.00")}.Amount()
	assert.False(t, debit)
	assert.Equal(t, "7.00", c.StringFixed(2))
}

func TestBanks_Catalogue(t *testing.T) {
	banks := Banks()
	require.Len(t, banks, 9)
	for i := 1; i < len(banks); i++ {
		assert.Less(t, banks[i-1].Code, banks[i].Code)
	}
	assert.Contains(t, Erste.Extensions(), ".html")
	assert.Equal(t, []string{".pdf"}, Adriatic.Extensions())
}
