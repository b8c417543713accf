package domain

// LoanType is one product in the loan catalog. Records are immutable
// reference data; Name is the unique key.
type LoanType struct {
	Name         string  `json:"type"`
	Description  string  `json:"description"`
	MinAge       int     `json:"min_age"`
	MaxAge       int     `json:"max_age"`
	MinCibil     int     `json:"min_cibil"`
	MinIncome    float64 `json:"min_income"`
	MaxAmount    float64 `json:"max_amount"`
	InterestRate float64 `json:"interest_rate"`
	TenureYears  int     `json:"tenure_years"`
}

// ApplicantProfile is the input for one eligibility evaluation. It is
// transient and never persisted.
type ApplicantProfile struct {
	LoanType         string  `json:"loan_type"`
	Age              int     `json:"age"`
	MonthlyIncome    float64 `json:"income"`
	CibilScore       int     `json:"cibil_score"`
	EmploymentStatus string  `json:"employment_status"`
}

// EligibilityVerdict is the outcome of an eligibility evaluation.
// MaxAmount is present only when IsEligible is true.
type EligibilityVerdict struct {
	IsEligible bool     `json:"is_eligible"`
	Message    string   `json:"message"`
	MaxAmount  *float64 `json:"max_amount,omitempty"`
}
