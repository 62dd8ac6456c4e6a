package domain

import "github.com/shopspring/decimal"

// Money is an amount in the currency's major unit held as a fixed-point decimal.
// Prices of the seed catalog are whole numbers, percent discounts may not be.
type Money = decimal.Decimal

var Zero = decimal.Zero

func NewMoney(units int64) Money {
	return decimal.NewFromInt(units)
}

// ParseMoney accepts the decimal string form used on the wire ("180000", "12.50").
func ParseMoney(s string) (Money, error) {
	return decimal.NewFromString(s)
}
