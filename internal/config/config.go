package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AI        AIConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host          string
	Port          int
	Secure        bool   // Use HTTPS-only cookies
	Environment   string // "development", "production", "test"
	Debug         bool
	DebugMaxChars int
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type AIConfig struct {
	GeminiAPIKey      string
	GeminiModel       string
	// GeminiTemperature overrides the advice prompt's temperature when set.
	GeminiTemperature *float64
	Timeout           time.Duration
	Stub              bool
}

type SessionConfig struct {
	TTL            time.Duration
	MemoryCapacity int
}

type RateLimitConfig struct {
	AdvicePerHour int64
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", "0.0.0.0"),
			Port:          getEnvInt("SERVER_PORT", 8080),
			Secure:        getEnvBool("SERVER_SECURE", false),
			Environment:   getEnv("APP_ENV", "development"),
			Debug:         getEnvBool("DEBUG", false),
			DebugMaxChars: getEnvInt("DEBUG_LOG_MAX_CHARS", 8000),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvBool("DB_ENABLED", true),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "saathi"),
			Password: getEnv("DB_PASSWORD", "saathi"),
			DBName:   getEnv("DB_NAME", "swasthya_saathi"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		AI: AIConfig{
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-3-pro-preview"),
			GeminiTemperature: getEnvFloatPtr("GEMINI_TEMPERATURE"),
			Timeout:           getEnvDuration("GEMINI_TIMEOUT", 60*time.Second),
			Stub:              getEnvBool("AI_STUB", false),
		},
		Session: SessionConfig{
			TTL:            getEnvDuration("SESSION_TTL", 24*time.Hour),
			MemoryCapacity: getEnvInt("SESSION_MEMORY_CAPACITY", 10000),
		},
		RateLimit: RateLimitConfig{
			AdvicePerHour: int64(getEnvInt("ADVICE_RATE_LIMIT", 20)),
		},
	}

	if cfg.Server.Environment == "development" && os.Getenv("ADVICE_RATE_LIMIT") == "" {
		cfg.RateLimit.AdvicePerHour = 100
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid SERVER_PORT %d", cfg.Server.Port)
	}
	if t := cfg.AI.GeminiTemperature; t != nil && (*t < 0 || *t > 2) {
		return nil, fmt.Errorf("invalid GEMINI_TEMPERATURE %v", *t)
	}
	if cfg.Session.MemoryCapacity <= 0 {
		return nil, fmt.Errorf("invalid SESSION_MEMORY_CAPACITY %d", cfg.Session.MemoryCapacity)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvFloatPtr returns nil when key is unset or unparsable, so an explicit
// zero stays distinguishable from "not configured".
func getEnvFloatPtr(key string) *float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return &floatVal
		}
	}
	return nil
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
