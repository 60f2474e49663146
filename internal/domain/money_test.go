package domain_test

import (
	"testing"

	"github.com/nikolayk812/cartflow/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func eur(amount string) domain.Money {
	return domain.Money{
		Amount:   decimal.RequireFromString(amount),
		Currency: currency.EUR,
	}
}

func TestMoneyMul(t *testing.T) {
	got := eur("2.50").Mul(3)

	assert.True(t, got.Amount.Equal(decimal.RequireFromString("7.50")))
	assert.Equal(t, currency.EUR, got.Currency)
}

func TestMoneyAdd(t *testing.T) {
	t.Run("same currency", func(t *testing.T) {
		got, err := eur("1.10").Add(eur("2.05"))
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("3.15")))
	})

	t.Run("currency mismatch", func(t *testing.T) {
		other := domain.Money{Amount: decimal.New(1, 0), Currency: currency.USD}

		_, err := eur("1.00").Add(other)
		require.Error(t, err)
	})
}

func TestCartTotal(t *testing.T) {
	lines := []domain.CartLine{
		{ItemID: 1, Price: eur("5.00"), Quantity: 2},
		{ItemID: 2, Price: eur("0.75"), Quantity: 4},
	}

	total := domain.CartTotal(lines)

	assert.True(t, total.Amount.Equal(decimal.RequireFromString("13.00")),
		"got %s", total.Amount)
	assert.Equal(t, currency.EUR, total.Currency)

	assert.True(t, domain.CartTotal(nil).Amount.IsZero())
}
