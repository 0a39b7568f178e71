package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server needs from the environment.
type Config struct {
	HTTP        HTTPConfig
	DatabaseURL string
	Redis       RedisConfig
	JWT         JWTConfig
	SMTP        SMTPConfig
	Admin       AdminSeed
	RateLimit   RateLimitConfig

	// DashboardCacheTTL bounds staleness of the cached dashboard summary.
	DashboardCacheTTL time.Duration
}

// HTTPConfig sizes the public HTTP server. WriteTimeout must stay above the
// per-request timeout the middleware chain applies.
type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// RedisConfig holds connection tuning for the optional Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// JWTConfig holds token signing parameters for admin sessions.
type JWTConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
	TokenTTL   time.Duration
}

// SMTPConfig holds outbound mail settings. Empty Host disables SMTP and
// notifications fall back to the log notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// AdminSeed describes the initial admin user created when the table is empty.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

// RateLimitConfig throttles the public lead-capture endpoints.
type RateLimitConfig struct {
	PerMinute int
	Window    time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		HTTP: HTTPConfig{
			Addr:              envOr("HOMELEADS_ADDR", ":8080"),
			ReadHeaderTimeout: envDurationOr("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       envDurationOr("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      envDurationOr("HTTP_WRITE_TIMEOUT", 45*time.Second),
			IdleTimeout:       envDurationOr("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		DatabaseURL: envOr("DATABASE_URL", "postgres://localhost:5432/homeleads?sslmode=disable"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		JWT: JWTConfig{
			// Development default - must be overridden in production.
			SigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:     envOr("JWT_ISSUER", "homeleads"),
			Audience:   envOr("JWT_AUDIENCE", "homeleads-admin"),
			TokenTTL:   envDurationOr("JWT_TOKEN_TTL", 12*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envIntOr("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			To:       os.Getenv("NOTIFY_TO"),
		},
		Admin: AdminSeed{
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
			Name:     envOr("ADMIN_NAME", "Admin"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: envIntOr("LEAD_RATE_LIMIT", 10),
			Window:    time.Minute,
		},
		DashboardCacheTTL: envDurationOr("DASHBOARD_CACHE_TTL", 30*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
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

func envDurationOr(key string, fallback time.Duration) time.Duration {
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
