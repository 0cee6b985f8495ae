package dto

import (
	"milhouse/internal/domain/loan"
	"milhouse/internal/domain/shared/money"
)

// LoanQuote is the calculator output plus display strings in the listing currency.
type LoanQuote struct {
	BankID             string         `json:"bankId,omitempty"`
	AnnualRatePercent  float64        `json:"annualRatePercent"`
	TermYears          int            `json:"termYears"`
	BasePrice          float64        `json:"basePrice"`
	DownPayment        float64        `json:"downPayment"`
	DownPaymentPercent float64        `json:"downPaymentPercent"`
	Principal          float64        `json:"principal"`
	MonthlyRate        float64        `json:"monthlyRate"`
	Months             int            `json:"months"`
	MonthlyPayment     float64        `json:"monthlyPayment"`
	TotalPaid          float64        `json:"totalPaid"`
	TotalInterest      float64        `json:"totalInterest"`
	Formatted          LoanFormatting `json:"formatted"`
}

type LoanFormatting struct {
	BasePrice      string `json:"basePrice"`
	DownPayment    string `json:"downPayment"`
	Principal      string `json:"principal"`
	MonthlyPayment string `json:"monthlyPayment"`
	TotalPaid      string `json:"totalPaid"`
}

// MapLoanQuote renders res computed from in.
func MapLoanQuote(bankID string, in loan.Input, res loan.Result, currency string) LoanQuote {
	return LoanQuote{
		BankID:             bankID,
		AnnualRatePercent:  in.AnnualRatePercent,
		TermYears:          res.Months / 12,
		BasePrice:          res.BasePrice,
		DownPayment:        res.DownPayment,
		DownPaymentPercent: res.DownPaymentPercent,
		Principal:          res.Principal,
		MonthlyRate:        res.MonthlyRate,
		Months:             res.Months,
		MonthlyPayment:     res.MonthlyPayment,
		TotalPaid:          res.TotalPaid,
		TotalInterest:      res.TotalInterest,
		Formatted: LoanFormatting{
			BasePrice:      money.Format(res.BasePrice, currency),
			DownPayment:    money.Format(res.DownPayment, currency),
			Principal:      money.Format(res.Principal, currency),
			MonthlyPayment: money.Format(res.MonthlyPayment, currency),
			TotalPaid:      money.Format(res.TotalPaid, currency),
		},
	}
}

// Banks is the rate table served to the calculator widget.
type Banks struct {
	Items        []loan.Bank `json:"items"`
	MinTermYears int         `json:"minTermYears"`
	MaxTermYears int         `json:"maxTermYears"`
	CustomBankID string      `json:"customBankId"`
}

func MapBanks(items []loan.Bank) Banks {
	return Banks{
		Items:        items,
		MinTermYears: loan.MinTermYears,
		MaxTermYears: loan.MaxTermYears,
		CustomBankID: loan.CustomBankID,
	}
}
