package config

import (
	"os"
	"strconv"
	"time"

	"tixgate/internal/cache"
	"tixgate/internal/external"
	"tixgate/internal/messaging"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	SessionTTL     time.Duration
	SessionBackend string // memory, file, valkey
	SessionDir     string

	RateLimitRPS   float64
	RateLimitBurst int

	Valkey cache.Config
	NATS   messaging.Config

	Auth         external.Config
	Events       external.Config
	Tickets      external.Config
	Transactions external.Config
	Reviews      external.Config
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_HOURS", 12)) * time.Hour,
		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionDir:     getEnv("SESSION_DIR", "/tmp/tixgate-sessions"),

		RateLimitRPS:   float64(getEnvInt("RATE_LIMIT_RPS", 20)),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),

		Valkey: cache.Config{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			EventTTL: time.Duration(getEnvInt("EVENTS_CACHE_TTL_SEC", 30)) * time.Second,
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "tixgate"),
			ClientID:  getEnv("NATS_CLIENT_ID", "tixgate-gateway"),
		},

		Auth:         serviceConfig("AUTH", "http://localhost:8081"),
		Events:       serviceConfig("EVENTS", "http://localhost:8082"),
		Tickets:      serviceConfig("TICKETS", "http://localhost:8083"),
		Transactions: serviceConfig("TRANSACTIONS", "http://localhost:8084"),
		Reviews:      serviceConfig("REVIEWS", "http://localhost:8085"),
	}
}

func serviceConfig(prefix, defaultURL string) external.Config {
	return external.Config{
		BaseURL: getEnv(prefix+"_SERVICE_URL", defaultURL),
		Timeout: time.Duration(getEnvInt(prefix+"_TIMEOUT_SEC", 30)) * time.Second,
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
