package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the process's runtime settings, loaded once at startup from
// the environment (optionally seeded by a .env file).
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	AllowedOrigins  []string
	MaxBodySize     int64
	RateLimitPerMin int
}

// Load reads configuration from the environment. A missing .env file is not
// an error; it just means the process relies on whatever the environment
// already provides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	origins := os.Getenv("ALLOWED_ORIGINS")
	var allowedOrigins []string
	if origins != "" {
		allowedOrigins = splitOrigins(origins)
	} else {
		if env == "production" {
			log.Println("[WARNING] ALLOWED_ORIGINS not set in production! Defaulting to '*' which is insecure.")
		}
		allowedOrigins = []string{"*"}
	}

	maxBodySize := int64(1 * 1024 * 1024)
	if sizeStr := os.Getenv("MAX_BODY_SIZE"); sizeStr != "" {
		if size, err := strconv.ParseInt(sizeStr, 10, 64); err == nil {
			maxBodySize = size
		}
	}

	rateLimit := 120
	if rateStr := os.Getenv("RATE_LIMIT_PER_MIN"); rateStr != "" {
		if rate, err := strconv.Atoi(rateStr); err == nil {
			rateLimit = rate
		}
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		AllowedOrigins:  allowedOrigins,
		MaxBodySize:     maxBodySize,
		RateLimitPerMin: rateLimit,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
