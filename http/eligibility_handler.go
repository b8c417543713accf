package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"loan-advisor/domain"
	"loan-advisor/service"
)

type eligibilityRequest struct {
	LoanType         string  `json:"loan_type" validate:"required"`
	Age              int     `json:"age" validate:"required"`
	Income           float64 `json:"income" validate:"gte=0"`
	CibilScore       int     `json:"cibil_score" validate:"gte=0"`
	EmploymentStatus string  `json:"employment_status"`
}

type EligibilityHandler struct {
	service  *service.EligibilityService
	validate *validator.Validate
}

func NewEligibilityHandler(service *service.EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{service: service, validate: validator.New()}
}

// Check evaluates an applicant against the catalog rules. An ineligible
// applicant is a 200 with a verdict; only an unknown loan type is a 404.
func (h *EligibilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req eligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, "loan_type and age are required")
		return
	}

	verdict, err := h.service.Evaluate(domain.ApplicantProfile{
		LoanType:         req.LoanType,
		Age:              req.Age,
		MonthlyIncome:    req.Income,
		CibilScore:       req.CibilScore,
		EmploymentStatus: req.EmploymentStatus,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}
