package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	APIBaseURL string
	APITimeout time.Duration

	StorageDriver string
	StoragePath   string
	RedisURL      string
	DBUrl         string

	CORSOrigins []string
	RateLimit   float64
	RateBurst   int

	PaymentDelay       time.Duration
	PaymentSuccessRate float64

	MockAPIPort string
	JWTSecret   string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, using defaults")
	}

	return Config{
		Port:     getEnv("PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		APITimeout: getDuration("API_TIMEOUT", 30*time.Second),

		StorageDriver: getEnv("STORAGE_DRIVER", "file"),
		StoragePath:   getEnv("STORAGE_PATH", ".ecomstore/session.json"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/2"),
		DBUrl:         os.Getenv("DB_URL"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RateLimit:   getFloat("RATE_LIMIT", 10),
		RateBurst:   getInt("RATE_BURST", 20),

		PaymentDelay:       getDuration("PAYMENT_DELAY", 3*time.Second),
		PaymentSuccessRate: getFloat("PAYMENT_SUCCESS_RATE", 0.9),

		MockAPIPort: getEnv("MOCK_API_PORT", "8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
