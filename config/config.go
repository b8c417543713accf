package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds every runtime setting for the daemon. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	ListenAddr string

	// Session store
	SessionTTL    time.Duration
	SweepInterval time.Duration

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Loan catalog
	CatalogPath string

	// External language model
	OpenAIKey     string
	OpenAIModel   string
	OpenAITimeout time.Duration

	// Optional reply cache
	RedisAddr string

	// Affordability cap: employment status -> multiple of annual income.
	AffordabilityMultipliers map[string]float64
}

// DefaultAffordabilityMultipliers is the policy table used when no
// override is configured. Salaried applicants get the highest multiple.
func DefaultAffordabilityMultipliers() map[string]float64 {
	return map[string]float64{
		"Salaried":       0.60,
		"Business Owner": 0.55,
		"Self-Employed":  0.50,
		"Freelancer":     0.40,
	}
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	return Config{
		ListenAddr:               envString("LISTEN_ADDR", ":8080"),
		SessionTTL:               envDuration("SESSION_TTL", 30*time.Minute),
		SweepInterval:            envDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		RateLimitRequests:        envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:          envDuration("RATE_LIMIT_WINDOW", time.Minute),
		CatalogPath:              envString("LOAN_CATALOG_FILE", ""),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:              envString("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout:            envDuration("OPENAI_TIMEOUT", 10*time.Second),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		AffordabilityMultipliers: DefaultAffordabilityMultipliers(),
	}
}

// SetupLogging configures the global zerolog logger. Level comes from
// LOG_LEVEL and defaults to info.
func SetupLogging() {
	level := zerolog.InfoLevel
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.With().Str("service", "loan-advisor").Logger()
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer in environment, using default")
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration in environment, using default")
	}
	return fallback
}
