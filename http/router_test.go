package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-advisor/config"
	"loan-advisor/domain"
	"loan-advisor/repository"
	"loan-advisor/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	catalog := repository.DefaultCatalog()
	sessions := repository.NewSessionStore(30*time.Minute, time.Hour)
	t.Cleanup(sessions.Stop)

	emiService := service.NewEMIService()
	eligibilityService := service.NewEligibilityService(catalog, config.DefaultAffordabilityMultipliers())
	profileService := service.NewProfileService(nil)
	chatService := service.NewChatService(sessions, catalog, emiService, eligibilityService, nil, repository.NewMemoryCache())

	return NewRouter(
		RouterConfig{},
		NewChatHandler(chatService),
		NewEMIHandler(emiService),
		NewEligibilityHandler(eligibilityService),
		NewCatalogHandler(catalog),
		NewProfileHandler(profileService),
	)
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEMICalculate_OK(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/emi-calculator",
		`{"principal": 100000, "annual_rate": 10, "tenure_years": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result domain.AmortizationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 8791.59, result.EMI, 0.1)
	assert.InDelta(t, 105499.06, result.TotalPayable, 0.1)
}

func TestEMICalculate_MalformedBody(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/emi-calculator", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.KindValidation, decodeError(t, rec).Error.Kind)
}

func TestEMICalculate_MissingFields(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/emi-calculator",
		`{"annual_rate": 10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEMICalculate_RejectedByService(t *testing.T) {
	router := newTestRouter(t)

	// Passes structural validation but fails the range checks.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/emi-calculator",
		`{"principal": -5000, "annual_rate": 10, "tenure_years": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.KindValidation, decodeError(t, rec).Error.Kind)
}

func TestEMISchedule_OK(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/emi-calculator/schedule",
		`{"principal": 10000, "annual_rate": 8, "tenure_years": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Schedule []domain.ScheduleEntry `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Schedule, 12)
	assert.Equal(t, 1, resp.Schedule[0].Period)
	assert.True(t, resp.Schedule[11].RemainingBalance.IsZero())
}

func TestEligibility_OK(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/eligibility",
		`{"loan_type": "Personal", "age": 30, "income": 50000, "cibil_score": 750, "employment_status": "Salaried"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var verdict domain.EligibilityVerdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.True(t, verdict.IsEligible)
	require.NotNil(t, verdict.MaxAmount)
	assert.Equal(t, 360000.0, *verdict.MaxAmount)
}

func TestEligibility_IneligibleIsStill200(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/eligibility",
		`{"loan_type": "Personal", "age": 17, "income": 50000, "cibil_score": 750}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var verdict domain.EligibilityVerdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.False(t, verdict.IsEligible)
	assert.Nil(t, verdict.MaxAmount)
}

func TestEligibility_UnknownLoanType(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/eligibility",
		`{"loan_type": "Spaceship", "age": 30, "income": 50000, "cibil_score": 750}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, domain.KindNotFound, decodeError(t, rec).Error.Kind)
}

func TestChat_RoundTrip(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/chat", `{"message": "hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var first domain.ChatReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.NotEmpty(t, first.SessionID)
	assert.Contains(t, first.Reply, "loan advisor")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/chat",
		`{"message": "what are your interest rates", "session_id": "`+first.SessionID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var second domain.ChatReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Contains(t, second.Reply, "interest rates")
}

func TestChat_MalformedBody(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/chat", `{"message": }`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoans_List(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/loans", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.LoanType
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 6)
	assert.Equal(t, "Personal", products[0].Name)
	assert.True(t, strings.Contains(rec.Body.String(), `"type":"Personal"`))
}

func TestDna_OK(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/dna",
		`{"income": 80000, "expenses": 30000, "existing_emi": 5000, "cibil_score": 780, "savings": 400000, "employment_status": "Salaried"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report domain.ProfileReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report.DnaSequence, 12)
	assert.Len(t, report.Insights, 3)
	assert.NotEmpty(t, report.Strategy)
	assert.Len(t, report.Scores, 5)
}

func TestDna_ZeroIncome(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/dna", `{"income": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	catalog := repository.DefaultCatalog()
	sessions := repository.NewSessionStore(30*time.Minute, time.Hour)
	t.Cleanup(sessions.Stop)

	emiService := service.NewEMIService()
	router := NewRouter(
		RouterConfig{RateLimitRequests: 2, RateLimitWindow: time.Minute},
		NewChatHandler(service.NewChatService(sessions, catalog, emiService,
			service.NewEligibilityService(catalog, config.DefaultAffordabilityMultipliers()),
			nil, repository.NewMemoryCache())),
		NewEMIHandler(emiService),
		NewEligibilityHandler(service.NewEligibilityService(catalog, config.DefaultAffordabilityMultipliers())),
		NewCatalogHandler(catalog),
		NewProfileHandler(service.NewProfileService(nil)),
	)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, router, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doJSON(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCORS_PreflightAndHeader(t *testing.T) {
	catalog := repository.DefaultCatalog()
	sessions := repository.NewSessionStore(30*time.Minute, time.Hour)
	t.Cleanup(sessions.Stop)

	emiService := service.NewEMIService()
	eligibilityService := service.NewEligibilityService(catalog, config.DefaultAffordabilityMultipliers())
	router := NewRouter(
		RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		NewChatHandler(service.NewChatService(sessions, catalog, emiService, eligibilityService, nil, repository.NewMemoryCache())),
		NewEMIHandler(emiService),
		NewEligibilityHandler(eligibilityService),
		NewCatalogHandler(catalog),
		NewProfileHandler(service.NewProfileService(nil)),
	)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/loans", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/loans", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
