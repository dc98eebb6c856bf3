package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the dashboard.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Export       ExportConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `validate:"required"`
	Env                   string `validate:"oneof=development staging production test"`
	Host                  string
	Port                  string `validate:"required,numeric"`
	Version               string
	RequestTimeoutSeconds int `validate:"gte=0"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN                  string
	MaxConns             int32 `validate:"gte=1"`
	MinConns             int32 `validate:"gte=0,ltefield=MaxConns"`
	RunMigrations        bool
	MigrationsDir        string
	ConnMaxIdleSec       int32
	ConnMaxLifeSec       int32
	ConnectRetries       int `validate:"gte=0"`
	ConnectRetryInterval time.Duration
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `validate:"required,hostname_port"`
	Password string
	DB       int `validate:"gte=0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// AuthConfig defines session parameters.
type AuthConfig struct {
	JWTSecret       string `validate:"required,min=8"`
	SessionTTLHours int    `validate:"gte=1"`
	CookieName      string `validate:"required"`
	SecureCookie    bool
	BcryptCost      int `validate:"gte=4,lte=31"`
}

// ExportConfig tunes export rendering.
type ExportConfig struct {
	TimeZone            string `validate:"required,timezone"`
	RedactAlways        bool
	TemplateCacheTTLSec int `validate:"gte=0"`
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string `validate:"omitempty,email"`
	WebhookURL string `validate:"omitempty,url"`

	// ReminderIntervalSec is how often due tasks are swept; 0 disables the sweep.
	ReminderIntervalSec int `validate:"gte=0"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "msp-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:                  os.Getenv("POSTGRES_DSN"),
			MaxConns:             int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:             int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:        getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:        getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec:       int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:       int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			ConnectRetries:       getEnvAsInt("POSTGRES_CONNECT_RETRIES", 5),
			ConnectRetryInterval: time.Duration(getEnvAsInt("POSTGRES_CONNECT_RETRY_INTERVAL_MS", 1000)) * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", "dev-secret"),
			SessionTTLHours: getEnvAsInt("AUTH_SESSION_TTL_HOURS", 168),
			CookieName:      getEnv("AUTH_COOKIE_NAME", "session"),
			SecureCookie:    getEnvAsBool("AUTH_SECURE_COOKIE", false),
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Export: ExportConfig{
			TimeZone:            getEnv("EXPORT_TIME_ZONE", "America/New_York"),
			RedactAlways:        getEnvAsBool("EXPORT_REDACT_ALWAYS", false),
			TemplateCacheTTLSec: getEnvAsInt("EXPORT_TEMPLATE_CACHE_TTL_SECONDS", 60),
		},
		Notification: NotificationConfig{
			EmailFrom:           getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL:          getEnv("NOTIFY_WEBHOOK_URL", ""),
			ReminderIntervalSec: getEnvAsInt("TASK_REMINDER_INTERVAL_SECONDS", 900),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns how long an issued session stays valid.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// Location resolves the export time zone. Load has already validated it.
func (e ExportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(e.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TemplateCacheTTL returns how long default template lookups are cached.
func (e ExportConfig) TemplateCacheTTL() time.Duration {
	return time.Duration(e.TemplateCacheTTLSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// ReminderInterval converts ReminderIntervalSec to a duration.
func (n NotificationConfig) ReminderInterval() time.Duration {
	return time.Duration(n.ReminderIntervalSec) * time.Second
}
