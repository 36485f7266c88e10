package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Epsilon is the default tolerance used when comparing amounts (one cent).
var Epsilon = NewFromCents(1)

// Money is an immutable currency amount. All operations return new values.
type Money struct {
	amount decimal.Decimal
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// New wraps a decimal amount expressed in major currency units.
func New(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewFromCents builds an amount from minor currency units.
func NewFromCents(cents int64) Money {
	return Money{amount: decimal.NewFromInt(cents).Shift(-2)}
}

// NewFromFloat builds an amount from a float. Storage drivers sometimes surface
// numeric columns as floats; the value is normalized through decimal immediately.
func NewFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount)}
}

// NewFromString parses a decimal string such as "19.99".
func NewFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Money{amount: d}, nil
}

// MustFromString is NewFromString that panics on malformed input.
func MustFromString(amount string) Money {
	m, err := NewFromString(amount)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal exposes the underlying decimal amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MulQty multiplies the amount by an integer quantity.
func (m Money) MulQty(qty int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty)))}
}

// Div divides by an integer count. A zero divisor yields zero rather than a fault.
func (m Money) Div(n int64) Money {
	if n == 0 {
		return Zero()
	}
	return Money{amount: m.amount.DivRound(decimal.NewFromInt(n), 4)}
}

func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs()}
}

// Cmp returns -1, 0 or +1 comparing exact amounts.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// NearlyEqual reports whether |m - other| < eps.
func (m Money) NearlyEqual(other, eps Money) bool {
	return m.Sub(other).Abs().Cmp(eps) < 0
}

// ExceedsBy reports whether m > other + eps.
func (m Money) ExceedsBy(other, eps Money) bool {
	return m.Cmp(other.Add(eps)) > 0
}

// Round2 rounds half away from zero to cents.
func (m Money) Round2() Money {
	return Money{amount: m.amount.Round(2)}
}

// Float64 returns the nearest float. Only for presentation.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String renders the amount with two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// PercentChange returns (m - previous) / previous * 100 rounded to two places.
// When previous is zero the change is defined as 0.
func PercentChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	pct := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
	f, _ := pct.Float64()
	return f
}

// Sum adds every amount.
func Sum(values ...Money) Money {
	total := Zero()
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var f float64
		if ferr := json.Unmarshal(data, &f); ferr != nil {
			return fmt.Errorf("money must be a string or number: %w", err)
		}
		*m = NewFromFloat(f)
		return nil
	}
	parsed, err := NewFromString(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner for numeric columns.
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan money: %w", err)
	}
	m.amount = d
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}
