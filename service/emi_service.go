package service

import (
	"math"

	"github.com/shopspring/decimal"

	"loan-advisor/domain"
)

// EMIService computes equated monthly installments using the standard
// reducing-balance formula. It is pure and safe for concurrent use.
type EMIService struct{}

func NewEMIService() *EMIService {
	return &EMIService{}
}

func validateAmortizationRequest(req domain.AmortizationRequest) error {
	if req.Principal <= 0 {
		return domain.NewValidationError("principal must be positive")
	}
	if req.Principal > MaxPrincipal {
		return domain.NewValidationError("principal exceeds the maximum of %.0f", MaxPrincipal)
	}
	if req.AnnualRate < 0 {
		return domain.NewValidationError("annual rate must not be negative")
	}
	if req.AnnualRate > MaxAnnualRate {
		return domain.NewValidationError("annual rate exceeds the maximum of %.0f%%", MaxAnnualRate)
	}
	if req.TenureYears <= 0 {
		return domain.NewValidationError("tenure must be positive")
	}
	if req.TenureYears > MaxTenureYears {
		return domain.NewValidationError("tenure exceeds the maximum of %.0f years", MaxTenureYears)
	}
	return nil
}

// Calculate returns the EMI summary for req. Intermediate math runs at
// full float precision; rounding to two decimals happens only on the
// output values, so identical inputs always give identical results.
func (s *EMIService) Calculate(req domain.AmortizationRequest) (domain.AmortizationResult, error) {
	if err := validateAmortizationRequest(req); err != nil {
		return domain.AmortizationResult{}, err
	}

	months := int(math.Round(req.TenureYears * 12))
	if months <= 0 {
		return domain.AmortizationResult{}, domain.NewValidationError("tenure must cover at least one month")
	}

	emi := monthlyInstallment(req.Principal, req.AnnualRate, months)
	totalPayable := emi * float64(months)
	totalInterest := totalPayable - req.Principal

	return domain.AmortizationResult{
		EMI:           roundMoney(emi),
		TotalInterest: roundMoney(totalInterest),
		TotalPayable:  roundMoney(totalPayable),
	}, nil
}

// monthlyInstallment returns the unrounded EMI.
//
//	r   = annualRate / 1200 (monthly decimal rate)
//	emi = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate degenerates to an even split of the principal.
func monthlyInstallment(principal, annualRate float64, months int) float64 {
	if annualRate == 0 {
		return principal / float64(months)
	}
	r := annualRate / 1200
	factor := math.Pow(1+r, float64(months))
	return principal * r * factor / (factor - 1)
}

// Schedule expands req into the month-by-month amortization table. The
// final row is adjusted so the remaining balance lands on exactly zero.
func (s *EMIService) Schedule(req domain.AmortizationRequest) ([]domain.ScheduleEntry, error) {
	if err := validateAmortizationRequest(req); err != nil {
		return nil, err
	}

	months := int(math.Round(req.TenureYears * 12))
	if months <= 0 {
		return nil, domain.NewValidationError("tenure must cover at least one month")
	}

	payment := decimal.NewFromFloat(monthlyInstallment(req.Principal, req.AnnualRate, months)).Round(2)
	monthlyRate := decimal.NewFromFloat(req.AnnualRate / 1200)
	remaining := decimal.NewFromFloat(req.Principal)

	schedule := make([]domain.ScheduleEntry, 0, months)
	for period := 1; period <= months; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := payment.Sub(interest)

		if period == months {
			// Absorb accumulated rounding into the last installment.
			principalPart = remaining
			payment = principalPart.Add(interest)
		}

		remaining = remaining.Sub(principalPart)
		if remaining.LessThan(decimal.Zero) {
			remaining = decimal.Zero
		}

		schedule = append(schedule, domain.ScheduleEntry{
			Period:           period,
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})
	}

	return schedule, nil
}

func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
