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
	Env  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Ledger
	BaseCurrency string

	// Price feed
	PriceRefreshHours int           // hours between scheduled asset refreshes
	FeedTimeout       time.Duration // per-request timeout for external providers
	USDRateFallback   string        // decimal string, used when the rate lookup fails
	AutoCloseInterval time.Duration // how often the due-investment sweep runs
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		BaseCurrency: getEnv("BASE_CURRENCY", "KES"),

		USDRateFallback: getEnv("USD_RATE_FALLBACK", "160"),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	config.PriceRefreshHours = getEnvInt("PRICE_REFRESH_HOURS", 2)
	if config.PriceRefreshHours < 1 || config.PriceRefreshHours > 4 {
		log.Printf("Warning: PRICE_REFRESH_HOURS %d out of range [1,4], falling back to 2\n", config.PriceRefreshHours)
		config.PriceRefreshHours = 2
	}

	config.FeedTimeout = getEnvDuration("FEED_TIMEOUT", 10*time.Second)
	config.AutoCloseInterval = getEnvDuration("AUTO_CLOSE_INTERVAL", 5*time.Minute)

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

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, value, defaultValue)
		return defaultValue
	}
	return d
}
