package infrastructures

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	PORT                  string
	LOG_LEVEL             string
	DATABASE_URL          string
	REDIS_ADDRESS         string
	REDIS_PASSWORD        string
	ADMIN_API_BASE_URL    string
	ADMIN_API_TIMEOUT     time.Duration
	ADMIN_API_MAX_RETRIES int
	LIST_DEBOUNCE         time.Duration
	LIST_PAGE_SIZE        int
	LIST_IDLE_TTL         time.Duration
	SESSION_CACHE_TTL     time.Duration
}

var Config *AppConfig

func LoadConfig() *AppConfig {
	godotenv.Load()

	Config = &AppConfig{
		PORT:                  getEnv("PORT", "8080"),
		LOG_LEVEL:             getEnv("LOG_LEVEL", "info"),
		DATABASE_URL:          os.Getenv("DATABASE_URL"),
		REDIS_ADDRESS:         getEnv("REDIS_ADDRESS", "localhost:6379"),
		REDIS_PASSWORD:        os.Getenv("REDIS_PASSWORD"),
		ADMIN_API_BASE_URL:    os.Getenv("ADMIN_API_BASE_URL"),
		ADMIN_API_TIMEOUT:     getEnvDuration("ADMIN_API_TIMEOUT", 15*time.Second),
		ADMIN_API_MAX_RETRIES: getEnvInt("ADMIN_API_MAX_RETRIES", 2),
		LIST_DEBOUNCE:         getEnvDuration("LIST_DEBOUNCE", 500*time.Millisecond),
		LIST_PAGE_SIZE:        getEnvInt("LIST_PAGE_SIZE", 10),
		LIST_IDLE_TTL:         getEnvDuration("LIST_IDLE_TTL", 30*time.Minute),
		SESSION_CACHE_TTL:     getEnvDuration("SESSION_CACHE_TTL", 5*time.Minute),
	}

	if Config.ADMIN_API_BASE_URL == "" {
		logrus.Warn("ADMIN_API_BASE_URL is not set, list fetches will fail")
	}

	return Config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		logrus.Warnf("invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		logrus.Warnf("invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
