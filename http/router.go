package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// RouterConfig carries the cross-cutting settings for the HTTP surface.
type RouterConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	AllowedOrigins    []string
}

// NewRouter wires every endpoint with the canonical middleware stack:
// recoverer, request id, CORS, logging, then per-IP rate limiting.
func NewRouter(
	cfg RouterConfig,
	chat *ChatHandler,
	emi *EMIHandler,
	eligibility *EligibilityHandler,
	catalog *CatalogHandler,
	profile *ProfileHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(CORS(cfg.AllowedOrigins))
	}
	r.Use(RequestLogger)
	if cfg.RateLimitRequests > 0 {
		r.Use(httprate.Limit(
			cfg.RateLimitRequests,
			cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", chat.Chat)
		r.Post("/emi-calculator", emi.Calculate)
		r.Post("/emi-calculator/schedule", emi.Schedule)
		r.Post("/eligibility", eligibility.Check)
		r.Get("/loans", catalog.List)
		r.Post("/dna", profile.Analyze)
	})

	return r
}
