package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost       string
	MeiliMasterKey        string
	SearchReindexSchedule string

	CloudinaryUploadFolder string

	JWTSecret           string
	SessionCookieName   string
	SessionCookieSecure bool
	SessionTTL          time.Duration
	SessionRememberTTL  time.Duration

	RateLimitAvatar time.Duration

	SeedCatalog bool
}

// devJWTSecret signs sessions in development when JWT_SECRET is unset.
const devJWTSecret = "change-me"

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: getEnv("DATABASE_URL", buildDSN()),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost:       os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:        os.Getenv("MEILI_MASTER_KEY"),
		SearchReindexSchedule: getEnv("SEARCH_REINDEX_SCHEDULE", "@every 6h"),

		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "avatars"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "coursematch_session"),
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", cfg.AppEnv)
		}
		cfg.JWTSecret = devJWTSecret
	}

	var err error
	cfg.SessionCookieSecure, err = parseBool(getEnv("SESSION_COOKIE_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_COOKIE_SECURE: %w", err)
	}
	cfg.SeedCatalog, err = parseBool(getEnv("SEED_CATALOG", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_CATALOG: %w", err)
	}

	cfg.SessionTTL, err = parseDuration(getEnv("SESSION_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionRememberTTL, err = parseDuration(getEnv("SESSION_REMEMBER_TTL", "48h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_REMEMBER_TTL: %w", err)
	}
	cfg.RateLimitAvatar, err = parseDuration(getEnv("RATE_LIMIT_AVATAR", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_AVATAR: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func buildDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASS"),
		getEnv("DB_NAME", "coursematch"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

func parseBool(s string) (bool, error) {
	return strconv.ParseBool(s)
}
