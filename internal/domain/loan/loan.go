package loan

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"milhouse/internal/domain/properties"
)

var (
	ErrInvalidCustomRate = errors.New("loan: custom rate must be a positive number")
	ErrUnknownBank       = errors.New("loan: unknown bank")
)

const (
	MinTermYears = 1
	MaxTermYears = 30
	// DefaultTermYears applies when a quote request leaves the term out.
	DefaultTermYears = 20
	// CustomBankID selects a rate supplied by the user instead of the table.
	CustomBankID = "custom"
)

// Input is the set of values the calculator derives a quote from.
type Input struct {
	BasePrice         float64
	DownPayment       float64
	AnnualRatePercent float64
	TermYears         int
}

// Result is the amortization quote for an Input. Formatting is left to callers.
type Result struct {
	BasePrice          float64
	DownPayment        float64
	Principal          float64
	MonthlyRate        float64
	Months             int
	MonthlyPayment     float64
	DownPaymentPercent float64
	TotalPaid          float64
	TotalInterest      float64
}

// Compute returns the fixed-rate amortized monthly payment for in. Out of range
// down payments are clamped, never rejected, and a non-positive base price
// yields an all-zero principal and payment.
func Compute(in Input) Result {
	base := in.BasePrice
	if !finite(base) || base < 0 {
		base = 0
	}
	down := clamp(in.DownPayment, 0, base)
	months := ClampTerm(in.TermYears) * 12
	if months < 1 {
		months = 1
	}

	res := Result{
		BasePrice:   base,
		DownPayment: down,
		Months:      months,
	}
	if base == 0 {
		return res
	}

	principal := base - down
	rate := in.AnnualRatePercent
	if !finite(rate) || rate < 0 {
		rate = 0
	}
	i := rate / 100 / 12

	var payment float64
	if i == 0 {
		payment = principal / float64(months)
	} else {
		growth := math.Pow(1+i, float64(months))
		payment = principal * (i * growth) / (growth - 1)
	}

	res.Principal = principal
	res.MonthlyRate = i
	res.MonthlyPayment = payment
	res.DownPaymentPercent = math.Round(down / base * 100)
	res.TotalPaid = payment * float64(months)
	res.TotalInterest = res.TotalPaid - principal
	return res
}

// ClampTerm forces a term in years into [MinTermYears, MaxTermYears].
func ClampTerm(years int) int {
	if years < MinTermYears {
		return MinTermYears
	}
	if years > MaxTermYears {
		return MaxTermYears
	}
	return years
}

// ResolveBasePrice picks the unit price when p is a multi-unit development and
// unitIndex selects a unit with a price; otherwise the listing price. Negative
// unitIndex means no unit is selected.
func ResolveBasePrice(p properties.Property, unitIndex int) float64 {
	if properties.SupportsUnits(p.Type) && unitIndex >= 0 && unitIndex < len(p.Units) {
		if u := p.Units[unitIndex]; u.Price != nil && finite(*u.Price) {
			return *u.Price
		}
	}
	price := p.EffectivePrice()
	if !finite(price) {
		return 0
	}
	return price
}

// Bank is one entry of the fixed rate table.
type Bank struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	APR  float64 `json:"apr"`
}

var banks = []Bank{
	{ID: "banreservas", Name: "Banreservas", APR: 12.5},
	{ID: "popular", Name: "Banco Popular", APR: 13.25},
	{ID: "bhd", Name: "Banco BHD", APR: 13.95},
	{ID: "scotiabank", Name: "Scotiabank", APR: 14.5},
	{ID: "apap", Name: "Asociación Popular (APAP)", APR: 11.9},
}

// Banks returns the rate table followed by the custom entry, whose APR is zero
// until the user supplies one.
func Banks() []Bank {
	out := make([]Bank, 0, len(banks)+1)
	out = append(out, banks...)
	return append(out, Bank{ID: CustomBankID, Name: "Otra tasa (personalizada)"})
}

// SelectRate resolves the APR for bankID. For the custom entry the raw user input
// is parsed and must be a positive number; callers re-prompt on
// ErrInvalidCustomRate.
func SelectRate(bankID, custom string) (float64, error) {
	id := strings.ToLower(strings.TrimSpace(bankID))
	if id == CustomBankID {
		return ParseCustomRate(custom)
	}
	for _, b := range banks {
		if b.ID == id {
			return b.APR, nil
		}
	}
	return 0, ErrUnknownBank
}

// ParseCustomRate accepts "9.75", "9,75" or "9.75%".
func ParseCustomRate(raw string) (float64, error) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	rate, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || !finite(rate) || rate <= 0 {
		return 0, ErrInvalidCustomRate
	}
	return rate, nil
}

func clamp(v, lo, hi float64) float64 {
	if !finite(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
