// Package money provides fixed-point monetary amounts and bounded percentage
// rates used by order pricing.
//
// Money is an integer count of minor currency units (cents). Nothing in this
// package uses floating point.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorDigits is the number of fraction digits in the canonical string form.
const MinorDigits = 2

var (
	ErrInvalidAmount = errors.New("money: invalid amount")
	ErrPrecision     = errors.New("money: more than 2 fraction digits")
	ErrOverflow      = errors.New("money: amount out of range")
)

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Money is an amount expressed in minor currency units.
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// FromMinor wraps a minor-unit count.
func FromMinor(minor int64) Money {
	return Money(minor)
}

// Parse reads the canonical decimal form ("12.34", "-0.50", "7").
// Inputs that would need rounding or do not fit in int64 are rejected.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	scaled := d.Shift(MinorDigits)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %q", ErrPrecision, s)
	}
	if scaled.GreaterThan(maxMinor) || scaled.LessThan(minMinor) {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return Money(scaled.IntPart()), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MinorUnits returns the raw minor-unit count.
func (m Money) MinorUnits() int64 {
	return int64(m)
}

func (m Money) Add(o Money) Money {
	return m + o
}

func (m Money) Sub(o Money) Money {
	return m - o
}

// Mul scales the amount by an integer quantity.
func (m Money) Mul(qty int64) Money {
	return Money(int64(m) * qty)
}

// AddChecked is Add that fails with ErrOverflow instead of wrapping.
func (m Money) AddChecked(o Money) (Money, error) {
	r := m + o
	if (o > 0 && r < m) || (o < 0 && r > m) {
		return 0, fmt.Errorf("%w: %s + %s", ErrOverflow, m, o)
	}
	return r, nil
}

// MulChecked is Mul that fails with ErrOverflow instead of wrapping.
func (m Money) MulChecked(qty int64) (Money, error) {
	if m == 0 || qty == 0 {
		return 0, nil
	}
	r := int64(m) * qty
	if r/qty != int64(m) || (qty == -1 && m == math.MinInt64) || (m == -1 && qty == math.MinInt64) {
		return 0, fmt.Errorf("%w: %s * %d", ErrOverflow, m, qty)
	}
	return Money(r), nil
}

func (m Money) Neg() Money {
	return -m
}

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) int {
	switch {
	case m < o:
		return -1
	case m > o:
		return 1
	default:
		return 0
	}
}

func (m Money) IsZero() bool {
	return m == 0
}

func (m Money) IsNegative() bool {
	return m < 0
}

func (m Money) IsPositive() bool {
	return m > 0
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -MinorDigits)
}

// String returns the canonical form with exactly two fraction digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(MinorDigits)
}

// ApplyPercentage returns m * p / 100, rounded half-up (away from zero) once.
func (m Money) ApplyPercentage(p Percentage) Money {
	v := decimal.NewFromInt(int64(m)).Mul(p.value).Shift(-2).Round(0)
	return Money(v.IntPart())
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts the canonical string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
		}
		str = num.String()
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
