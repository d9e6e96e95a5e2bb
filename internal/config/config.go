package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by StorageConfig.Backend.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Credential policies accepted by APIConfig.Credentials.
const (
	CredentialsInclude = "include"
	CredentialsOmit    = "omit"
)

// Config aggregates runtime configuration for the client and the development backend.
type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	MockAPI MockAPIConfig
}

// AppConfig controls process level behavior.
type AppConfig struct {
	Name          string
	Env           string
	Version       string
	DefaultLocale string
}

// APIConfig describes how the typed HTTP client reaches the backend.
type APIConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
	Credentials           string
	RateLimitPerSecond    float64
	RateLimitBurst        int
}

// StorageConfig selects where the access token and locale are persisted.
type StorageConfig struct {
	Backend    string
	SQLitePath string
	KeyPrefix  string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// MockAPIConfig configures the in-memory development backend.
type MockAPIConfig struct {
	Host                  string
	Port                  string
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
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
			Name:          getEnv("APP_NAME", "helpdesk"),
			Env:           getEnv("APP_ENV", "development"),
			Version:       getEnv("APP_VERSION", "dev"),
			DefaultLocale: getEnv("APP_LOCALE", "ko"),
		},
		API: APIConfig{
			BaseURL:               strings.TrimRight(getEnv("HELPDESK_API_BASE_URL", "http://localhost:8080/api"), "/"),
			RequestTimeoutSeconds: getEnvAsInt("HELPDESK_HTTP_TIMEOUT_SECONDS", 30),
			Credentials:           strings.ToLower(getEnv("HELPDESK_CREDENTIALS", CredentialsInclude)),
			RateLimitPerSecond:    getEnvAsFloat("HELPDESK_RATE_LIMIT_RPS", 0),
			RateLimitBurst:        getEnvAsInt("HELPDESK_RATE_LIMIT_BURST", 1),
		},
		Storage: StorageConfig{
			Backend:    strings.ToLower(getEnv("HELPDESK_STORAGE", StorageSQLite)),
			SQLitePath: getEnv("HELPDESK_SQLITE_PATH", defaultSQLitePath()),
			KeyPrefix:  getEnv("HELPDESK_STORAGE_PREFIX", "helpdesk:"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		MockAPI: MockAPIConfig{
			Host:                  getEnv("MOCKAPI_HOST", "127.0.0.1"),
			Port:                  getEnv("MOCKAPI_PORT", "8080"),
			JWTSecret:             getEnv("MOCKAPI_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("MOCKAPI_ACCESS_TOKEN_TTL_MINUTES", 15),
			BcryptCost:            getEnvAsInt("MOCKAPI_BCRYPT_COST", 10),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("invalid HELPDESK_STORAGE %q", c.Storage.Backend)
	}
	switch c.API.Credentials {
	case CredentialsInclude, CredentialsOmit:
	default:
		return fmt.Errorf("invalid HELPDESK_CREDENTIALS %q", c.API.Credentials)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("HELPDESK_API_BASE_URL must not be empty")
	}
	return nil
}

// RequestTimeout returns the configured request timeout duration.
func (a APIConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IncludeCredentials reports whether cookies are sent alongside requests.
func (a APIConfig) IncludeCredentials() bool {
	return a.Credentials != CredentialsOmit
}

// Addr returns the development backend bind address.
func (m MockAPIConfig) Addr() string {
	return fmt.Sprintf("%s:%s", m.Host, m.Port)
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".helpdesk", "state.db")
	}
	return filepath.Join(home, ".helpdesk", "state.db")
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

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
