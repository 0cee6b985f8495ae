package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"RD$ 1,234,567.00", 1234567, true},
		{"1.234.567", 1234567, true},
		{"1.234.567,50", 1234567.5, true},
		{"US$ 250.000", 250000, true},
		{"150,000", 150000, true},
		{"1,5", 1.5, true},
		{"99.95", 99.95, true},
		{"-500", -500, true},
		{"3500000", 3500000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"RD$", 0, false},
		{"-", 0, false},
		{".", 0, false},
		{"5-3", 5, true},
		{"US$ 100,000 - 200,000", 100000, true},
		{"RD$ -1.500", -1500, true},
		{"--5", 0, false},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in)
		assert.Equal(t, tc.ok, ok, "ok for %q", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "value for %q", tc.in)
		}
	}
}

func TestParsePtr(t *testing.T) {
	assert.Nil(t, ParsePtr("sin precio"))
	v := ParsePtr("RD$ 2,000")
	if assert.NotNil(t, v) {
		assert.Equal(t, 2000.0, *v)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "RD$1,234,567", Format(1234567.2, "DOP"))
	assert.Equal(t, "US$950", Format(950, "usd"))
	assert.Equal(t, "-RD$1,000", Format(-1000, "DOP"))
	assert.Equal(t, "GBP 12", Format(12, "GBP"))
	assert.Equal(t, "RD$0", Must(0, "dop").String())
}

func TestNewRejectsBadCurrency(t *testing.T) {
	_, err := New(10, "RD")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}
