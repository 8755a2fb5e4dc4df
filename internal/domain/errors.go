package domain

import "errors"

var (
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrEmptyCurrency    = errors.New("currency cannot be empty")
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter code")
	ErrCurrencyMismatch = errors.New("money currencies do not match")
	ErrNegativeStock    = errors.New("stock cannot be negative")
)
