package loans

import (
	"context"
	"errors"
	"strings"

	"milhouse/internal/app/dto"
	"milhouse/internal/app/queries"
	"milhouse/internal/domain/loan"
	domainproperties "milhouse/internal/domain/properties"
	"milhouse/internal/domain/shared/money"
)

const (
	quoteLoanKey = "loans.quote"
	listBanksKey = "loans.banks"
)

var ErrBasePriceRequired = errors.New("loans: property or base price is required")

// QuoteLoanQuery asks for a quote against a stored property (optionally one of
// its units) or against an explicit base price.
type QuoteLoanQuery struct {
	PropertyID         string
	UnitIndex          *int
	BasePrice          *float64
	DownPayment        *float64
	DownPaymentPercent *float64
	BankID             string
	CustomRate         string
	// TermYears of zero means not given and selects loan.DefaultTermYears.
	TermYears int
}

func (QuoteLoanQuery) Key() string { return quoteLoanKey }

type QuoteLoanHandler struct {
	Repo domainproperties.Repository
}

func (h *QuoteLoanHandler) Handle(ctx context.Context, q QuoteLoanQuery) (dto.LoanQuote, error) {
	rate, err := loan.SelectRate(q.BankID, q.CustomRate)
	if err != nil {
		return dto.LoanQuote{}, err
	}

	base, currency, err := h.resolveBase(ctx, q)
	if err != nil {
		return dto.LoanQuote{}, err
	}

	var down float64
	switch {
	case q.DownPayment != nil:
		down = *q.DownPayment
	case q.DownPaymentPercent != nil:
		down = base * *q.DownPaymentPercent / 100
	}

	term := q.TermYears
	if term == 0 {
		term = loan.DefaultTermYears
	}
	in := loan.Input{
		BasePrice:         base,
		DownPayment:       down,
		AnnualRatePercent: rate,
		TermYears:         loan.ClampTerm(term),
	}
	return dto.MapLoanQuote(strings.ToLower(strings.TrimSpace(q.BankID)), in, loan.Compute(in), currency), nil
}

func (h *QuoteLoanHandler) resolveBase(ctx context.Context, q QuoteLoanQuery) (float64, string, error) {
	if strings.TrimSpace(q.PropertyID) == "" {
		if q.BasePrice == nil {
			return 0, "", ErrBasePriceRequired
		}
		return *q.BasePrice, money.DefaultCurrency, nil
	}
	id := strings.ToLower(strings.TrimSpace(q.PropertyID))
	if !domainproperties.IsObjectIDHex(id) {
		return 0, "", domainproperties.ErrInvalidID
	}
	if h.Repo == nil {
		return 0, "", ErrBasePriceRequired
	}
	p, err := h.Repo.ByID(ctx, domainproperties.PropertyID(id))
	if err != nil {
		return 0, "", err
	}
	unit := -1
	if q.UnitIndex != nil {
		unit = *q.UnitIndex
	}
	currency := p.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	return loan.ResolveBasePrice(*p, unit), currency, nil
}

// ListBanksQuery returns the calculator rate table.
type ListBanksQuery struct{}

func (ListBanksQuery) Key() string { return listBanksKey }

type ListBanksHandler struct{}

func (ListBanksHandler) Handle(context.Context, ListBanksQuery) (dto.Banks, error) {
	return dto.MapBanks(loan.Banks()), nil
}

var (
	_ queries.Handler[QuoteLoanQuery, dto.LoanQuote] = (*QuoteLoanHandler)(nil)
	_ queries.Handler[ListBanksQuery, dto.Banks]     = ListBanksHandler{}
)
