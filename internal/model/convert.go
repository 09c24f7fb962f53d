package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParseDay parses a YYYY-MM-DD string into a UTC-midnight time.
// Returns the zero time for empty or invalid input.
func ParseDay(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DayOf truncates a timestamp to UTC midnight.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDecimal parses a numeric string into a NullDecimal.
// Empty strings and provider placeholders ("." for FRED missing values)
// come back invalid rather than zero.
func ParseDecimal(s string) decimal.NullDecimal {
	if s == "" || s == "." {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Dec wraps a valid decimal into a NullDecimal.
func Dec(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
