package domain

import "github.com/shopspring/decimal"

// CartLine holds one selected menu item. Name and Price are snapshots taken
// when the item is first added, so a catalog reload cannot drift an in-flight cart.
type CartLine struct {
	ItemID   int64
	Name     string
	Price    Money
	Quantity int64
}

func (l CartLine) Subtotal() Money {
	return l.Price.Mul(l.Quantity)
}

// CartTotal sums price x quantity over lines using exact decimal arithmetic.
// The result is order-independent; the currency comes from the first line.
func CartTotal(lines []CartLine) Money {
	total := Money{Amount: decimal.Zero}
	for i, line := range lines {
		if i == 0 {
			total.Currency = line.Price.Currency
		}
		total.Amount = total.Amount.Add(line.Subtotal().Amount)
	}

	return total
}
