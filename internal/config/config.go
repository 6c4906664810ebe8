package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	AppEnv   string
	DSN      string
	Port     string
	LogLevel zerolog.Level

	StorageDir string

	OrderMaxRetries   int
	LowStockThreshold int

	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string

	KafkaBrokers []string
	KafkaTopic   string

	RedisAddr      string
	RedisPassword  string
	IdempotencyTTL time.Duration
}

// Load lee la configuración del entorno. Se espera que main haya llamado a godotenv.Load.
func Load() Config {
	c := Config{
		AppEnv:            strings.ToLower(getenv("APP_ENV", "development")),
		DSN:               dsn(),
		Port:              getenv("PORT", "8080"),
		LogLevel:          logLevel(os.Getenv("LOG_LEVEL")),
		StorageDir:        getenv("STORAGE_DIR", "uploads"),
		OrderMaxRetries:   getInt("ORDER_MAX_RETRIES", 5),
		LowStockThreshold: getInt("LOW_STOCK_THRESHOLD", 3),
		RateLimitRPS:      getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:    getInt("RATE_LIMIT_BURST", 40),
		CORSOrigins:       splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        getenv("KAFKA_TOPIC", "orders.placed"),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		IdempotencyTTL:    getDuration("IDEMPOTENCY_TTL", 24*time.Hour),
	}
	return c
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func dsn() string {
	if d := strings.TrimSpace(os.Getenv("DB_DSN")); d != "" {
		return d
	}
	host := getenv("DB_HOST", "localhost")
	port := getenv("DB_PORT", "5432")
	user := firstNonEmpty(os.Getenv("DB_USER"), os.Getenv("POSTGRES_USER"), "postgres")
	pass := firstNonEmpty(os.Getenv("DB_PASSWORD"), os.Getenv("POSTGRES_PASSWORD"), "postgres")
	name := firstNonEmpty(os.Getenv("DB_NAME"), os.Getenv("POSTGRES_DB"), "tiendaropa")
	ssl := getenv("DB_SSLMODE", "disable")
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}

func logLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(getenv(key, "")); err == nil {
		return v
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(getenv(key, ""), 64); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(key, "")); err == nil && v > 0 {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
