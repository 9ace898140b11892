package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/care-planner/internal/logger"
)

// AI providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	AI            AIConfig
	DB            DBConfig
	Redis         RedisConfig
	HTTP          HTTPConfig
	Scheduler     SchedulerConfig
	Timezone      string
	Logger        LoggerConfig
}

type AIConfig struct {
	Provider          string
	Model             string
	Timeout           time.Duration
	MaxAttempts       int
	BackoffBase       time.Duration
	RequestsPerMinute int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig is optional; an empty Host keeps bot state in memory
type RedisConfig struct {
	Host string
	Port string
}

type HTTPConfig struct {
	Address   string
	JWTSecret string
}

type SchedulerConfig struct {
	WeeklyDigestCron string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 2s: %w", key, err)
	}
	return v, nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// Load reads the configuration from the environment. Malformed numbers and
// durations are errors; missing required values are reported by Validate.
func Load() (*Config, error) {
	timeoutSeconds, err := getIntOrDefault("AI_TIMEOUT_SECONDS", 20)
	if err != nil {
		return nil, err
	}
	maxAttempts, err := getIntOrDefault("AI_MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	rpm, err := getIntOrDefault("AI_REQUESTS_PER_MINUTE", 30)
	if err != nil {
		return nil, err
	}
	backoff, err := getDurationOrDefault("AI_BACKOFF_BASE", 2*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		AI: AIConfig{
			Provider:          strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderGemini)),
			Model:             os.Getenv("AI_MODEL"),
			Timeout:           time.Duration(timeoutSeconds) * time.Second,
			MaxAttempts:       maxAttempts,
			BackoffBase:       backoff,
			RequestsPerMinute: rpm,
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "care_planner"),
		},
		Redis: RedisConfig{
			Host: os.Getenv("REDIS_HOST"),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		HTTP: HTTPConfig{
			Address:   getEnvOrDefault("HTTP_ADDRESS", ":8080"),
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Scheduler: SchedulerConfig{
			WeeklyDigestCron: getEnvOrDefault("WEEKLY_DIGEST_CRON", "0 9 * * 1"),
		},
		Timezone: getEnvOrDefault("TIMEZONE", "UTC"),
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}
	return cfg, nil
}

// Location resolves Timezone; log dates are bucketed in this zone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RedisAddr returns host:port, or "" when Redis is not configured
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}

// Validate reports every missing or inconsistent value at once
func (c *Config) Validate() error {
	var errs []error

	if c.TelegramToken == "" && c.HTTP.JWTSecret == "" {
		errs = append(errs, errors.New("either TELEGRAM_BOT_TOKEN or JWT_SECRET must be set"))
	}

	switch c.AI.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required when AI_PROVIDER=gemini"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required when AI_PROVIDER=openai"))
		}
	case ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("AI_PROVIDER must be gemini, openai or none, got %q", c.AI.Provider))
	}

	if c.AI.MaxAttempts < 1 {
		errs = append(errs, errors.New("AI_MAX_ATTEMPTS must be at least 1"))
	}
	if c.AI.Timeout <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT_SECONDS must be positive"))
	}
	if c.AI.RequestsPerMinute < 1 {
		errs = append(errs, errors.New("AI_REQUESTS_PER_MINUTE must be at least 1"))
	}
	if c.DB.Host == "" || c.DB.DBName == "" {
		errs = append(errs, errors.New("DB_HOST and DB_NAME are required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
