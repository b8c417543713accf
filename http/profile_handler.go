package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"loan-advisor/domain"
	"loan-advisor/service"
)

type profileRequest struct {
	Income           float64 `json:"income" validate:"required"`
	Expenses         float64 `json:"expenses" validate:"gte=0"`
	ExistingEMI      float64 `json:"existing_emi" validate:"gte=0"`
	CibilScore       int     `json:"cibil_score" validate:"gte=0"`
	Savings          float64 `json:"savings" validate:"gte=0"`
	EmploymentStatus string  `json:"employment_status"`
	Goal             string  `json:"goal"`
}

type ProfileHandler struct {
	service  *service.ProfileService
	validate *validator.Validate
}

func NewProfileHandler(service *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service, validate: validator.New()}
}

// Analyze returns the financial DNA report for a snapshot.
func (h *ProfileHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, "income is required and amounts must not be negative")
		return
	}

	report, err := h.service.Analyze(r.Context(), domain.FinancialSnapshot{
		Income:           req.Income,
		Expenses:         req.Expenses,
		ExistingEMI:      req.ExistingEMI,
		CibilScore:       req.CibilScore,
		Savings:          req.Savings,
		EmploymentStatus: req.EmploymentStatus,
		Goal:             req.Goal,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
