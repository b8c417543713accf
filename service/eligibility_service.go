package service

import (
	"loan-advisor/domain"
	"loan-advisor/repository"
)

// Ineligibility messages, one per check, in check order.
const (
	msgAgeOutsideRange = "Age outside the accepted range for this loan."
	msgCreditBelowMin  = "Credit score below the minimum for this loan."
	msgIncomeBelowMin  = "Income below the minimum threshold for this loan."
	msgEligible        = "Congratulations! You are eligible for this loan."
)

// defaultAffordMultiplier is the annual-income multiple applied when the
// employment status has no configured entry.
const defaultAffordMultiplier = 0.50

// EligibilityService evaluates applicant profiles against catalog rules.
// Checks run in a fixed order (age, credit, income) and the verdict
// message names the first failing check.
type EligibilityService struct {
	catalog     *repository.Catalog
	multipliers map[string]float64
}

// NewEligibilityService builds an evaluator over the given catalog. The
// multiplier table maps employment status to the multiple of annual
// income used for the affordability cap; it is policy, not logic.
func NewEligibilityService(catalog *repository.Catalog, multipliers map[string]float64) *EligibilityService {
	return &EligibilityService{catalog: catalog, multipliers: multipliers}
}

// Evaluate returns the eligibility verdict for profile. An unknown loan
// type is an error, not an ineligible verdict.
func (s *EligibilityService) Evaluate(profile domain.ApplicantProfile) (domain.EligibilityVerdict, error) {
	if profile.Age <= 0 {
		return domain.EligibilityVerdict{}, domain.NewValidationError("age must be positive")
	}
	if profile.MonthlyIncome < 0 {
		return domain.EligibilityVerdict{}, domain.NewValidationError("income must not be negative")
	}
	if profile.CibilScore < 0 {
		return domain.EligibilityVerdict{}, domain.NewValidationError("cibil score must not be negative")
	}

	loanType, err := s.catalog.Get(profile.LoanType)
	if err != nil {
		return domain.EligibilityVerdict{}, err
	}

	if profile.Age < loanType.MinAge || profile.Age > loanType.MaxAge {
		return domain.EligibilityVerdict{IsEligible: false, Message: msgAgeOutsideRange}, nil
	}
	if profile.CibilScore < loanType.MinCibil {
		return domain.EligibilityVerdict{IsEligible: false, Message: msgCreditBelowMin}, nil
	}
	if profile.MonthlyIncome < loanType.MinIncome {
		return domain.EligibilityVerdict{IsEligible: false, Message: msgIncomeBelowMin}, nil
	}

	maxAmount := s.affordabilityCap(profile)
	if maxAmount > loanType.MaxAmount {
		maxAmount = loanType.MaxAmount
	}

	return domain.EligibilityVerdict{
		IsEligible: true,
		Message:    msgEligible,
		MaxAmount:  &maxAmount,
	}, nil
}

// affordabilityCap is a multiple of annual income scaled by the
// employment-status risk factor.
func (s *EligibilityService) affordabilityCap(profile domain.ApplicantProfile) float64 {
	multiplier, ok := s.multipliers[profile.EmploymentStatus]
	if !ok {
		multiplier = defaultAffordMultiplier
	}
	return roundMoney(profile.MonthlyIncome * 12 * multiplier)
}
