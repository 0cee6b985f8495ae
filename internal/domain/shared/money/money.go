package money

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidCurrency = errors.New("money: invalid currency code")
)

// DefaultCurrency is the listing currency when a property does not state one.
const DefaultCurrency = "DOP"

// Money is a display amount in whole currency units.
type Money struct {
	Amount   float64
	Currency string
}

// New constructs a Money value validating minimal invariants.
func New(amount float64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}, nil
}

// Must creates Money and panics if validation fails; useful in tests and fixtures.
func Must(amount float64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// IsZero returns true if the amount equals zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// String renders the amount rounded to whole units, e.g. "RD$1,234,567".
func (m Money) String() string {
	return Format(m.Amount, m.Currency)
}

var currencySymbols = map[string]string{
	"DOP": "RD$",
	"USD": "US$",
	"EUR": "€",
}

// Format renders amount rounded to whole units with thousands separators.
func Format(amount float64, currency string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ""
	}
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}
	rounded := int64(math.Round(amount))
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	digits := strconv.FormatInt(rounded, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + symbol + b.String()
}

// Parse leniently reads a human formatted amount such as "RD$ 1,234,567.00".
// The second return value is false when no finite number can be recovered.
func Parse(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0, false
	}

	// only a leading minus is a sign; a later one ends the number ("100 - 200")
	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")
	if i := strings.IndexByte(cleaned, '-'); i >= 0 {
		cleaned = cleaned[:i]
	}

	normalized := normalizeSeparators(cleaned)
	if normalized == "" || normalized == "." {
		return 0, false
	}
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if negative {
		value = -value
	}
	return value, true
}

// ParsePtr is Parse returning nil for absent values, handy for optional bounds.
func ParsePtr(raw string) *float64 {
	value, ok := Parse(raw)
	if !ok {
		return nil
	}
	return &value
}

// normalizeSeparators turns a digits-and-separators token into a plain decimal.
// When both separators appear the last one is the decimal mark. A lone separator
// repeated, or followed by exactly three trailing digits, groups thousands.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal, group := byte('.'), ","
		if lastComma > lastDot {
			decimal, group = ',', "."
		}
		s = strings.ReplaceAll(s, group, "")
		return strings.Replace(s, string(decimal), ".", 1)
	case lastDot >= 0:
		return resolveSingle(s, '.')
	case lastComma >= 0:
		return resolveSingle(s, ',')
	default:
		return s
	}
}

func resolveSingle(s string, sep byte) string {
	if strings.Count(s, string(sep)) > 1 {
		return strings.ReplaceAll(s, string(sep), "")
	}
	idx := strings.IndexByte(s, sep)
	if idx > 0 && len(s)-idx-1 == 3 {
		return s[:idx] + s[idx+1:]
	}
	return strings.Replace(s, string(sep), ".", 1)
}
