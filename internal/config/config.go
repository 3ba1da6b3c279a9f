package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	// Leaderboard query limits.
	LeaderboardDefaultLimit int
	LeaderboardMaxLimit     int

	// Retrain thresholds for the performance monitor.
	RetrainMaxLatencyMS    float64
	RetrainMinAccuracyPct  float64
	RetrainMinSatisfaction float64
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:     envOr("ADDR", ":8080"),
		DBPath:   envOr("DB_PATH", "file:devflow.db"),
		LogLevel: envOr("LOG_LEVEL", "INFO"),

		LeaderboardDefaultLimit: envIntOr("LEADERBOARD_DEFAULT_LIMIT", 10),
		LeaderboardMaxLimit:     envIntOr("LEADERBOARD_MAX_LIMIT", 100),

		RetrainMaxLatencyMS:    envFloatOr("RETRAIN_MAX_LATENCY_MS", 5000),
		RetrainMinAccuracyPct:  envFloatOr("RETRAIN_MIN_ACCURACY_PCT", 70),
		RetrainMinSatisfaction: envFloatOr("RETRAIN_MIN_SATISFACTION", 3.5),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
