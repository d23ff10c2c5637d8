package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	ChapaBase   string
	ChapaKey    string
	Currency    string
	RateRPS     float64
	RateBurst   int
	SeedWorkers int
	CacheTTL    time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/travelapi?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		ChapaBase:   env("CHAPA_BASE_URL", "https://api.chapa.co/v1"),
		ChapaKey:    env("CHAPA_SECRET_KEY", ""),
		Currency:    env("PAYMENT_CURRENCY", "ETB"),
		RateRPS:     atof("RATE_LIMIT_RPS", 50),
		RateBurst:   atoi("RATE_LIMIT_BURST", 100),
		SeedWorkers: atoi("SEED_WORKERS", 8),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.ChapaKey == "" {
		log.Warn().Msg("CHAPA_SECRET_KEY is empty; payment initiation will fail")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
