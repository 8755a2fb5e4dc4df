package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an immutable amount in a single currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money value. The currency is trimmed and normalized to
// upper case, and must then be exactly three ASCII letters.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return Money{}, ErrEmptyCurrency
	}
	if !isCurrencyCode(currency) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}

	return Money{amount: amount, currency: currency}, nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// MustMoney is like NewMoney but panics on invalid input. Intended for constants and tests.
func MustMoney(amount string, currency string) Money {
	m, err := NewMoney(decimal.RequireFromString(amount), currency)
	if err != nil {
		panic(fmt.Sprintf("domain: invalid money %s %s: %v", amount, currency, err))
	}
	return m
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// IsZero reports whether m is the zero value (no currency).
func (m Money) IsZero() bool { return m.currency == "" }

// Equal compares amount and currency. 9.9 and 9.90 are equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency)
}

func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	return NewMoney(m.amount.Mul(factor), m.currency)
}

// Compare returns -1, 0 or 1. Comparing different currencies is an error.
func (m Money) Compare(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

func (m Money) GreaterThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c > 0, err
}

func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c < 0, err
}

func (m Money) GreaterOrEqual(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c >= 0, err
}

func (m Money) LessOrEqual(other Money) (bool, error) {
	c, err := m.Compare(other)
	return c <= 0, err
}

func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}

// MarshalJSON renders the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
	}{json.Number(m.amount.String()), m.currency})
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}
