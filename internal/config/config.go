package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Market data gateway (Yahoo Finance style endpoints)
	QuoteBaseURL  string
	ChartBaseURL  string
	SearchBaseURL string

	// Economic indicator gateway (BCB SGS series)
	IndicatorBaseURL string
	IndicatorTTL     time.Duration

	// Currency conversion. All valuations are reported in BRL;
	// FXFallbackRate is used when the USD/BRL quote is unavailable.
	FXFallbackRate float64

	// Financial health scoring thresholds
	Score ScoreConfig
}

// ScoreConfig holds the banded thresholds and bonuses of the financial
// health score. The constants are empirical; they are kept configurable
// rather than derived from a formula.
type ScoreConfig struct {
	BaseScore float64

	// Savings-rate bands (fraction of trailing income retained)
	SavingsRateHigh  float64 // >= High        -> +BonusHigh
	SavingsRateMid   float64 // >= Mid         -> +BonusMid
	SavingsBonusHigh float64
	SavingsBonusMid  float64
	SavingsBonusLow  float64 // > 0            -> +BonusLow
	SavingsPenalty   float64 // <= 0           -> -Penalty

	// Months-of-coverage bands (net worth over average monthly expense)
	CoverageBonus12 float64 // > 12 months
	CoverageBonus6  float64 // > 6 months
	CoverageBonus3  float64 // > 3 months
	CoverageBonus0  float64 // > 0 months

	// Negative net worth pins the score here regardless of flow.
	DebtScore float64
}

// DefaultScoreConfig returns the scoring constants used in production.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		BaseScore:        50,
		SavingsRateHigh:  0.30,
		SavingsRateMid:   0.15,
		SavingsBonusHigh: 30,
		SavingsBonusMid:  20,
		SavingsBonusLow:  10,
		SavingsPenalty:   10,
		CoverageBonus12:  20,
		CoverageBonus6:   15,
		CoverageBonus3:   10,
		CoverageBonus0:   5,
		DebtScore:        20,
	}
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "clario"),
		DBPassword: getEnv("DB_PASSWORD", "clario"),
		DBName:     getEnv("DB_NAME", "clario"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Gateways
		QuoteBaseURL:     getEnv("QUOTE_BASE_URL", "https://query1.finance.yahoo.com/v7/finance/quote"),
		ChartBaseURL:     getEnv("CHART_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
		SearchBaseURL:    getEnv("SEARCH_BASE_URL", "https://query1.finance.yahoo.com/v1/finance/search"),
		IndicatorBaseURL: getEnv("INDICATOR_BASE_URL", "https://api.bcb.gov.br/dados/serie"),

		FXFallbackRate: getEnvFloat("FX_FALLBACK_RATE", 5.20),

		Score: DefaultScoreConfig(),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	ttlStr := getEnv("INDICATOR_TTL", "1h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		log.Printf("Warning: invalid INDICATOR_TTL value '%s', falling back to 1h\n", ttlStr)
		ttl = time.Hour
	}
	config.IndicatorTTL = ttl

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', using default\n", key, raw)
		return defaultValue
	}
	return value
}
