package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// OpenAIAPIKey authenticates the narrative analysis client.
	OpenAIAPIKey string

	// AnalysisEnabled gates the AI narrative refresh cycle entirely.
	AnalysisEnabled bool

	// Refresh cycle periods. Each cycle is independent.
	ForecastInterval   time.Duration
	ConditionsInterval time.Duration
	AnalysisInterval   time.Duration

	// FetchTimeout bounds every per-spot outbound fetch.
	FetchTimeout time.Duration

	// HTTPTimeout applies to the shared outbound HTTP client.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnalysisEnabled = getenvBool("AI_ANALYSIS_ENABLED", false)

	var err error
	if cfg.ForecastInterval, err = getenvDuration("FORECAST_INTERVAL", "3h"); err != nil {
		return nil, err
	}
	if cfg.ConditionsInterval, err = getenvDuration("CONDITIONS_INTERVAL", "1m"); err != nil {
		return nil, err
	}
	if cfg.AnalysisInterval, err = getenvDuration("ANALYSIS_INTERVAL", "8h"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "20s"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.AnalysisEnabled && cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("AI_ANALYSIS_ENABLED is set but OPENAI_API_KEY is empty")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
