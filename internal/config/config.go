package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for every process (api, worker, consumer, hrmctl).
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Storage      StorageConfig
	Auth         AuthConfig
	Onboarding   OnboardingConfig
	Notification NotificationConfig
	Logger       LoggerConfig
	Metrics      MetricsConfig
}

type AppConfig struct {
	Name         string
	Env          string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// IsProduction reports whether cookies should be marked Secure.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type PostgresConfig struct {
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
}

type KafkaConfig struct {
	Brokers        []string
	LifecycleTopic string
	ConsumerGroup  string
	PollInterval   time.Duration
	MaxRetries     int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseTLS    bool
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	BcryptCost     int
}

type OnboardingConfig struct {
	InviteTTL      time.Duration
	LinkBase       string
	MaxUploadBytes int64
}

type NotificationConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

type LoggerConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from the environment, loading a .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", "go-hrm"),
			Env:          getEnv("APP_ENV", "development"),
			Port:         getEnv("PORT", "3000"),
			ReadTimeout:  getEnvAsDuration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		Postgres: PostgresConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       getEnv("DB_NAME", "hrm"),
			Port:       getEnv("DB_PORT", "5432"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			MaxRetries: getEnvAsInt("DB_MAX_RETRIES", 5),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         redisDB,
			MaxRetries: getEnvAsInt("REDIS_MAX_RETRIES", 5),
		},
		Kafka: KafkaConfig{
			Brokers:        getEnvAsList("KAFKA_BROKER", nil),
			LifecycleTopic: getEnv("KAFKA_LIFECYCLE_TOPIC", "hr.onboarding.lifecycle.v1"),
			ConsumerGroup:  getEnv("KAFKA_CONSUMER_GROUP", "go-hrm-notifier"),
			PollInterval:   getEnvAsDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
			MaxRetries:     getEnvAsInt("KAFKA_MAX_RETRIES", 5),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "hrm-documents"),
			UseTLS:    getEnvAsBool("MINIO_USE_TLS", false),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			AccessTokenTTL: getEnvAsDuration("AUTH_ACCESS_TOKEN_TTL", time.Hour),
			BcryptCost:     getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Onboarding: OnboardingConfig{
			InviteTTL:      getEnvAsDuration("ONBOARDING_INVITE_TTL", 7*24*time.Hour),
			LinkBase:       getEnv("ONBOARDING_LINK_BASE", "/onboard"),
			MaxUploadBytes: int64(getEnvAsInt("ONBOARDING_MAX_UPLOAD_BYTES", 5<<20)),
		},
		Notification: NotificationConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
			Timeout:    getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 7),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the services cannot run with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		if c.App.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.Auth.JWTSecret = "dev-secret"
	}
	if c.Onboarding.InviteTTL <= 0 {
		return fmt.Errorf("ONBOARDING_INVITE_TTL must be positive")
	}
	if c.Onboarding.MaxUploadBytes <= 0 {
		return fmt.Errorf("ONBOARDING_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// DSN builds the postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.Host, p.User, p.Password, p.Name, p.Port, p.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvAsBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvAsList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
