package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the service reads at startup.
type Config struct {
	Addr           string
	DatabaseDSN    string
	RedisAddr      string
	SegmenterAddr  string
	EmbedderAddr   string
	ArtifactDir    string
	JWTSecret      string
	JWTAudience    string
	SessionTTL     time.Duration
	ResultCacheTTL time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:           getEnv("LISTEN_ADDR", ":8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "host=postgres user=postgres password=postgres dbname=fashionpolice port=5432 sslmode=disable"),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		SegmenterAddr:  getEnv("SEGMENTER_ADDR", "inference:50051"),
		EmbedderAddr:   getEnv("EMBEDDER_ADDR", "inference:50051"),
		ArtifactDir:    getEnv("ARTIFACT_DIR", filepath.Join("data", "overlays")),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		JWTAudience:    os.Getenv("JWT_AUDIENCE"),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		ResultCacheTTL: getEnvAsDuration("RESULT_CACHE_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
