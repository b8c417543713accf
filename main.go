package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"loan-advisor/config"
	httpLayer "loan-advisor/http"
	"loan-advisor/repository"
	"loan-advisor/service"
)

func main() {
	config.SetupLogging()
	cfg := config.Load()

	catalog := repository.DefaultCatalog()
	if cfg.CatalogPath != "" {
		loaded, err := repository.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("failed to load loan catalog")
		}
		catalog = loaded
	}

	sessions := repository.NewSessionStore(cfg.SessionTTL, cfg.SweepInterval)
	defer sessions.Stop()

	var cache repository.ReplyCache = repository.NewMemoryCache()
	if cfg.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.RedisAddr)
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis reply cache")
	}

	ai := service.NewAIService(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAITimeout)
	if !ai.Enabled() {
		log.Info().Msg("language model disabled, all replies are deterministic")
	}

	emiService := service.NewEMIService()
	eligibilityService := service.NewEligibilityService(catalog, cfg.AffordabilityMultipliers)
	profileService := service.NewProfileService(ai)
	chatService := service.NewChatService(sessions, catalog, emiService, eligibilityService, ai, cache)

	router := httpLayer.NewRouter(
		httpLayer.RouterConfig{
			RateLimitRequests: cfg.RateLimitRequests,
			RateLimitWindow:   cfg.RateLimitWindow,
			AllowedOrigins:    []string{"http://localhost:5173", "http://localhost:3000"},
		},
		httpLayer.NewChatHandler(chatService),
		httpLayer.NewEMIHandler(emiService),
		httpLayer.NewEligibilityHandler(eligibilityService),
		httpLayer.NewCatalogHandler(catalog),
		httpLayer.NewProfileHandler(profileService),
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("loan advisor API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed to start")
		return
	case <-quit:
		log.Info().Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server exited")
}
