package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const moneyScale = 2

// ErrInvalidAmount is returned when a string is not a decimal amount.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// Money is an amount in the library's currency, always held with two decimal places.
type Money struct {
	amount decimal.Decimal
}

// NewMoney rounds d half away from zero to two decimals.
func NewMoney(d decimal.Decimal) Money {
	return MoneyFromCents(d.Shift(moneyScale).Round(0).IntPart())
}

// MoneyFromCents builds a Money from an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -moneyScale)}
}

// Dollars builds a Money from a whole number of currency units.
func Dollars(units int64) Money {
	return MoneyFromCents(units * 100)
}

// ParseMoney parses a decimal string like "12.5" or "3.00".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, errors.Join(ErrInvalidAmount, err)
	}

	return NewMoney(d), nil
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Cents returns the amount as an integer number of cents.
func (m Money) Cents() int64 {
	return m.amount.Shift(moneyScale).Round(0).IntPart()
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return NewMoney(m.amount.Add(other.amount))
}

// Times returns m multiplied by n.
func (m Money) Times(n int64) Money {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(n)))
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether m == 0.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equal compares amounts, ignoring representation.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders m with exactly two decimals, e.g. "5.00".
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

// MarshalJSON renders m as a bare JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*m = Money{}
		return nil
	}

	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
