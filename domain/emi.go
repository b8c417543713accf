package domain

import "github.com/shopspring/decimal"

// AmortizationRequest carries the inputs for an EMI computation.
type AmortizationRequest struct {
	Principal   float64 `json:"principal"`
	AnnualRate  float64 `json:"annual_rate"`
	TenureYears float64 `json:"tenure_years"`
}

// AmortizationResult summarises a reducing-balance amortization.
// TotalPayable = EMI * months and TotalPayable = Principal + TotalInterest,
// up to the rounding applied at the output boundary.
type AmortizationResult struct {
	EMI           float64 `json:"emi"`
	TotalInterest float64 `json:"total_interest"`
	TotalPayable  float64 `json:"total_payable"`
}

// ScheduleEntry is one month of a full amortization schedule.
type ScheduleEntry struct {
	Period           int             `json:"period"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}
