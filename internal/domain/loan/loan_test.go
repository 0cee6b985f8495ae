package loan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhouse/internal/domain/properties"
)

func fptr(v float64) *float64 { return &v }

func TestCompute_Fixture(t *testing.T) {
	res := Compute(Input{BasePrice: 3_000_000, DownPayment: 600_000, AnnualRatePercent: 14.5, TermYears: 20})
	assert.Equal(t, 2_400_000.0, res.Principal)
	assert.Equal(t, 240, res.Months)
	assert.InDelta(t, 0.0120833333, res.MonthlyRate, 1e-9)
	assert.InDelta(t, 30719.95, res.MonthlyPayment, 0.01)
	assert.Equal(t, 20.0, res.DownPaymentPercent)
	assert.InDelta(t, res.MonthlyPayment*240-2_400_000, res.TotalInterest, 1e-6)
}

func TestCompute_ZeroRate(t *testing.T) {
	res := Compute(Input{BasePrice: 3_000_000, DownPayment: 600_000, AnnualRatePercent: 0, TermYears: 20})
	assert.Equal(t, 10_000.0, res.MonthlyPayment)
	assert.Equal(t, 0.0, res.TotalInterest)
}

func TestCompute_ClampsDownPayment(t *testing.T) {
	low := Compute(Input{BasePrice: 1_000_000, DownPayment: -500, AnnualRatePercent: 10, TermYears: 10})
	assert.Equal(t, 0.0, low.DownPayment)
	assert.Equal(t, 1_000_000.0, low.Principal)
	assert.Equal(t, 0.0, low.DownPaymentPercent)

	high := Compute(Input{BasePrice: 1_000_000, DownPayment: 5_000_000, AnnualRatePercent: 10, TermYears: 10})
	assert.Equal(t, 1_000_000.0, high.DownPayment)
	assert.Equal(t, 0.0, high.Principal)
	assert.Equal(t, 0.0, high.MonthlyPayment)
	assert.Equal(t, 100.0, high.DownPaymentPercent)
}

func TestCompute_NonPositiveBase(t *testing.T) {
	for _, base := range []float64{0, -10} {
		res := Compute(Input{BasePrice: base, DownPayment: 100, AnnualRatePercent: 12, TermYears: 15})
		assert.Equal(t, 0.0, res.Principal)
		assert.Equal(t, 0.0, res.MonthlyPayment)
		assert.Equal(t, 0.0, res.DownPaymentPercent)
	}
}

func TestCompute_TermClamp(t *testing.T) {
	assert.Equal(t, 12, Compute(Input{BasePrice: 1200, TermYears: 0}).Months)
	assert.Equal(t, 360, Compute(Input{BasePrice: 1200, TermYears: 45}).Months)
	assert.Equal(t, 100.0, Compute(Input{BasePrice: 1200, TermYears: -2}).MonthlyPayment)
}

func TestResolveBasePrice(t *testing.T) {
	apt := properties.Property{
		Type:  properties.TypeApartamento,
		Price: fptr(150000),
		Units: []properties.Unit{{Name: "A", Price: fptr(180000)}, {Name: "B"}},
	}
	assert.Equal(t, 180000.0, ResolveBasePrice(apt, 0))
	assert.Equal(t, 150000.0, ResolveBasePrice(apt, 1), "unit without price falls back")
	assert.Equal(t, 150000.0, ResolveBasePrice(apt, -1))
	assert.Equal(t, 150000.0, ResolveBasePrice(apt, 9))

	house := properties.Property{Type: properties.TypeCasa, Price: fptr(90000), Units: apt.Units}
	assert.Equal(t, 90000.0, ResolveBasePrice(house, 0))

	unpriced := properties.Property{Type: properties.TypeVilla, PriceFormatted: "Consultar"}
	assert.Equal(t, 0.0, ResolveBasePrice(unpriced, -1))
}

func TestBanksEndWithCustomEntry(t *testing.T) {
	list := Banks()
	require.NotEmpty(t, list)
	assert.Equal(t, CustomBankID, list[len(list)-1].ID)
	for _, b := range list[:len(list)-1] {
		assert.Greater(t, b.APR, 0.0, b.Name)
	}
}

func TestSelectRate(t *testing.T) {
	rate, err := SelectRate("Scotiabank", "")
	require.NoError(t, err)
	assert.Equal(t, 14.5, rate)

	rate, err = SelectRate("custom", "9,75%")
	require.NoError(t, err)
	assert.Equal(t, 9.75, rate)

	for _, bad := range []string{"", "abc", "0", "-3", "NaN"} {
		_, err = SelectRate("custom", bad)
		assert.ErrorIs(t, err, ErrInvalidCustomRate, bad)
	}

	_, err = SelectRate("banco-fantasma", "")
	assert.ErrorIs(t, err, ErrUnknownBank)
}
