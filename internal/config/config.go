package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Engine
	DefaultLocale string
	Engine        EngineConfig

	// Gemini classifier
	Gemini GeminiConfig
}

// EngineConfig holds the analysis-engine thresholds. All of them are
// tunables with sane defaults, not fixed law.
type EngineConfig struct {
	// ReviewThreshold flags parsed drafts below this confidence for user
	// confirmation.
	ReviewThreshold float64
	// ConfidenceFloor is the minimum confidence a categorizer tier must
	// reach before its answer is accepted.
	ConfidenceFloor float64
	// ClassifierTimeout bounds the external classification call.
	ClassifierTimeout time.Duration
	// TrendThreshold is the minimum percentage change that emits a trend
	// insight; TrendWarning upgrades it to WARNING severity.
	TrendThreshold float64
	TrendWarning   float64
	// OverspendCritical upgrades an overspend insight to CRITICAL at this
	// percent of budget.
	OverspendCritical float64
	// AnomalyMultiple flags transactions above this multiple of the
	// category's historical average.
	AnomalyMultiple float64
}

// GeminiConfig holds external classifier configuration. An empty APIKey
// disables the external tier.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:           getEnv("ENV", "development"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en-US"),
		Engine: EngineConfig{
			ReviewThreshold:   getEnvFloat("ENGINE_REVIEW_THRESHOLD", 0.6),
			ConfidenceFloor:   getEnvFloat("ENGINE_CONFIDENCE_FLOOR", 0.5),
			ClassifierTimeout: getEnvDuration("ENGINE_CLASSIFIER_TIMEOUT", 5*time.Second),
			TrendThreshold:    getEnvFloat("ENGINE_TREND_THRESHOLD", 20),
			TrendWarning:      getEnvFloat("ENGINE_TREND_WARNING", 50),
			OverspendCritical: getEnvFloat("ENGINE_OVERSPEND_CRITICAL", 150),
			AnomalyMultiple:   getEnvFloat("ENGINE_ANOMALY_MULTIPLE", 3),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Engine.ReviewThreshold < 0 || c.Engine.ReviewThreshold > 1 {
		return fmt.Errorf("ENGINE_REVIEW_THRESHOLD must be in [0,1]")
	}
	if c.Engine.ConfidenceFloor < 0 || c.Engine.ConfidenceFloor > 1 {
		return fmt.Errorf("ENGINE_CONFIDENCE_FLOOR must be in [0,1]")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
