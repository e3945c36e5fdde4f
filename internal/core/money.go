// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. Parsing and JSON encoding go through
// shopspring/decimal so that no value ever passes through a float.
package core

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrAmountPrecision = errors.New("amount has more than two fractional digits")
	ErrAmountRange     = errors.New("amount out of range")
)

// Money is an exact amount with two fractional digits.
type Money struct {
	Cents int64
}

// ParseMoney converts a decimal string such as "12.34" or "-5" to Money.
//
// Unlike a display formatter it never rounds: "1.005" is rejected with
// ErrAmountPrecision. The sign is preserved; callers decide whether negative
// values are acceptable.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal converts d to Money, rejecting sub-cent precision.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.Coefficient().Sign() == 0 {
		return Money{}, nil
	}
	if err := checkExponent(d); err != nil {
		return Money{}, err
	}
	scaled := d.Shift(2)
	if !scaled.IsInteger() {
		return Money{}, ErrAmountPrecision
	}
	if !scaled.BigInt().IsInt64() {
		return Money{}, ErrAmountRange
	}
	return Money{Cents: scaled.IntPart()}, nil
}

// maxCentsExponent bounds the exponent of a nonzero value: 1e19 units is
// already past the int64 cents range.
const maxCentsExponent = 18

// checkExponent rejects values whose exponent would force a huge rescale
// before the range and precision checks could run.
func checkExponent(d decimal.Decimal) error {
	coef := d.Coefficient()
	exp := int64(d.Exponent())
	if exp > maxCentsExponent {
		return ErrAmountRange
	}
	// A coefficient divisible by 10^k needs at least k*log2(10) bits.
	if k := -exp - 2; k > 0 && float64(coef.BitLen()) < float64(k)*math.Log2(10) {
		return ErrAmountPrecision
	}
	return nil
}

// Decimal returns m as a decimal with exponent -2.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats m with exactly two fractional digits, e.g. "-30.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Validate reports whether m is usable as a transaction amount.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// MarshalJSON encodes m as a JSON number with two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}
	parsed, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
