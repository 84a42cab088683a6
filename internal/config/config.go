package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr   string
	DBPath string
	// DatabaseURL, si défini, remplace sqlite par postgres.
	DatabaseURL string
	APIKey      string
	LogLevel    string
	// ViewTTL: durée d'inactivité avant fermeture d'une vue (0 = jamais).
	ViewTTL time.Duration

	UpstreamConcurrency int
	UpstreamRPS         float64
}

func Default() Config {
	return Config{
		Addr:                envOr("YTV_ADDR", "127.0.0.1:8080"),
		DBPath:              envOr("YTV_DB_PATH", "ytv.db"),
		DatabaseURL:         os.Getenv("YTV_DATABASE_URL"),
		APIKey:              os.Getenv("YTV_YOUTUBE_API_KEY"),
		LogLevel:            envOr("YTV_LOG_LEVEL", "info"),
		ViewTTL:             envDuration("YTV_VIEW_TTL", 30*time.Minute),
		UpstreamConcurrency: envInt("YTV_UPSTREAM_CONCURRENCY", 4),
		UpstreamRPS:         envFloat("YTV_UPSTREAM_RPS", 5),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Les valeurs illisibles retombent sur la valeur par défaut.
func envDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return def
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return def
}
