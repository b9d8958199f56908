package kernel

import (
	"lunchroom/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point currency amount. It wraps decimal.Decimal so prices
// and totals never go through binary floating point: $10.50 plus a $2.00
// modifier is exactly $12.50, and totals round half-up to two decimal places
// exactly once, at order creation.
//
// Money may be negative: variation price modifiers are signed (a "no cheese"
// option can discount the base price). Whether a negative amount is acceptable
// is decided where the amount is used, not here.
type Money struct {
	amount decimal.Decimal
}

// NewMoneyFromString parses a decimal string like "10.50" or "-2.00".
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return Money{amount: d}, nil
}

// NewMoneyFromFloat converts a float amount, for values arriving from JSON
// bodies. The value is carried at full precision until Round2.
func NewMoneyFromFloat(f float64) Money {
	return Money{amount: decimal.NewFromFloat(f)}
}

// RestoreMoney wraps a decimal read back from persistence.
func RestoreMoney(d decimal.Decimal) Money {
	return Money{amount: d}
}

// Zero returns the zero amount.
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Mul returns the amount multiplied by an integer quantity.
func (m Money) Mul(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Round2 rounds half-up to currency precision (two decimal places).
func (m Money) Round2() Money {
	return Money{amount: m.amount.Round(2)}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsEqual reports numeric equality, ignoring trailing zeros.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Cents returns the amount in minor units (cents), as payment gateways
// require. The amount is rounded to currency precision first.
func (m Money) Cents() int64 {
	return m.amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
}

// Decimal exposes the underlying decimal for DTO mapping.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Float64 returns the closest float64, for read-model responses.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String renders with two decimal places, e.g. "12.50".
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
