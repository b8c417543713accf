package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"loan-advisor/domain"
	"loan-advisor/service"
)

type emiRequest struct {
	Principal   float64 `json:"principal" validate:"required"`
	AnnualRate  float64 `json:"annual_rate" validate:"gte=0"`
	TenureYears float64 `json:"tenure_years" validate:"required"`
}

type EMIHandler struct {
	service  *service.EMIService
	validate *validator.Validate
}

func NewEMIHandler(service *service.EMIService) *EMIHandler {
	return &EMIHandler{service: service, validate: validator.New()}
}

func (h *EMIHandler) decode(w http.ResponseWriter, r *http.Request) (domain.AmortizationRequest, bool) {
	var req emiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return domain.AmortizationRequest{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, "principal, annual_rate and tenure_years are required")
		return domain.AmortizationRequest{}, false
	}
	return domain.AmortizationRequest{
		Principal:   req.Principal,
		AnnualRate:  req.AnnualRate,
		TenureYears: req.TenureYears,
	}, true
}

// Calculate returns the EMI summary.
func (h *EMIHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.service.Calculate(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Schedule returns the month-by-month amortization table.
func (h *EMIHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.Schedule(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedule": schedule})
}
