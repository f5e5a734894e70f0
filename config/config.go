package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	StrictCurrency bool
	RatesFile      string
	TipsFile       string
	AuditBuffer    int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		DatabaseURL:    getEnvOrDefault("DATABASE_URL", "host=localhost port=5432 user=postgres password=postgres dbname=tripbudget sslmode=disable"),
		StrictCurrency: getEnvBool("TRIPBUDGET_STRICT_CURRENCY"),
		RatesFile:      os.Getenv("TRIPBUDGET_RATES_FILE"),
		TipsFile:       os.Getenv("TRIPBUDGET_TIPS_FILE"),
		AuditBuffer:    getEnvInt("TRIPBUDGET_AUDIT_BUFFER", 100),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
