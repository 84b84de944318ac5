package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLength = 32

// Config is the process configuration, read once at boot from environment
// variables. Load fails when a required secret is missing or too short.
type Config struct {
	Environment string
	Port        int

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret         string
	JWTRefreshSecret  string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	BcryptCost        int
	ResetTokenTTL     time.Duration

	CORSOrigin      string
	RateLimitWindow time.Duration
	RateLimitMax    int

	EnableTrace   bool
	TraceEndpoint string
}

// Production reports whether internal error details must be suppressed from
// client responses.
func (c Config) Production() bool {
	return c.Environment == "production"
}

// Load reads the environment (after best-effort .env loading) and validates
// required values.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		Port:             getEnvInt("PORT", 8000),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTokenTTL:   getEnvDuration("JWT_EXPIRES_IN", 15*time.Minute),
		RefreshTokenTTL:  getEnvDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		BcryptCost:       getEnvInt("BCRYPT_COST", 12),
		ResetTokenTTL:    getEnvDuration("RESET_TOKEN_TTL", time.Hour),
		CORSOrigin:       getEnv("CORS_ORIGIN", "http://localhost:3000"),
		RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:     getEnvInt("RATE_LIMIT_MAX", 100),
		EnableTrace:      getEnvBool("ENABLE_TRACE", false),
		TraceEndpoint:    getEnv("TRACE_ENDPOINT", "localhost:4318"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if len(cfg.JWTSecret) < minSecretLength {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if len(cfg.JWTRefreshSecret) < minSecretLength {
		return Config{}, fmt.Errorf("JWT_REFRESH_SECRET must be at least %d characters", minSecretLength)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
