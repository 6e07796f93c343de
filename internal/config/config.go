// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // FLYER_TIMEZONE must resolve in minimal containers

	"github.com/joho/godotenv"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendValkey = "valkey"
)

// minSecretLen is the shortest accepted SESSION_SECRET or ADMIN_TOKEN.
const minSecretLen = 32

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel slog.Level

	// Sessions
	SessionBackend string // "memory" or "valkey"
	SessionSecret  string // signs session ids; random per process when empty
	SessionTTL     time.Duration

	// Operator endpoints under /admin. Empty disables them.
	AdminToken string

	// Valkey (Redis-compatible session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AI provider settings
	AIProvider       string // "openai", "gemini", "claude", "mistral"
	AIRateLimit      int    // generator requests per minute per client IP
	OpenAIKey        string
	OpenAIModel      string
	OpenAIModelImage string
	OpenAIBaseURL    string
	GeminiKey        string
	GeminiModel      string
	GeminiModelImage string
	GeminiBaseURL    string
	ClaudeKey        string
	ClaudeModel      string
	ClaudeBaseURL    string
	MistralKey       string
	MistralModel     string
	MistralBaseURL   string

	// Flyer composition
	PlaceholderURL string
	Location       *time.Location
	DecodeTimeout  time.Duration
	MaxUploadBytes int64
	CalendarQR     bool
}

// LoadEnvFile reads the first .env file found among paths into the process
// environment. Variables already set are not overridden. A missing file is
// not an error.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		err := godotenv.Load(path)
		if err == nil {
			slog.Debug("environment loaded from file", "path", path)
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value is
// malformed or critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		SessionBackend: strings.ToLower(envOrDefault("SESSION_BACKEND", BackendMemory)),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:       envOrDefault("AI_PROVIDER", "gemini"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      envOrDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIModelImage: envOrDefault("OPENAI_MODEL_IMAGE", "gpt-image-1"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		GeminiKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiModelImage: envOrDefault("GEMINI_MODEL_IMAGE", "gemini-2.0-flash-exp"),
		GeminiBaseURL:    os.Getenv("GEMINI_BASE_URL"),
		ClaudeKey:        os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:      envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-5"),
		ClaudeBaseURL:    os.Getenv("CLAUDE_BASE_URL"),
		MistralKey:       os.Getenv("MISTRAL_API_KEY"),
		MistralModel:     envOrDefault("MISTRAL_MODEL", "mistral-large-latest"),
		MistralBaseURL:   os.Getenv("MISTRAL_BASE_URL"),

		PlaceholderURL: envOrDefault("FLYER_PLACEHOLDER_URL", "https://placehold.co/600x800.png"),
	}

	var errs []error
	var err error

	if cfg.LogLevel, err = parseLevel(envOrDefault("LOG_LEVEL", "info")); err != nil {
		errs = append(errs, err)
	}
	if cfg.SessionTTL, err = envDuration("SESSION_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.DecodeTimeout, err = envDuration("FLYER_DECODE_TIMEOUT", 5*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.AIRateLimit, err = envInt("AI_RATE_LIMIT", 10); err != nil {
		errs = append(errs, err)
	}
	maxMB, err := envInt("FLYER_MAX_UPLOAD_MB", 10)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.MaxUploadBytes = int64(maxMB) << 20
	if cfg.CalendarQR, err = envBool("FLYER_CALENDAR_QR", false); err != nil {
		errs = append(errs, err)
	}

	tz := envOrDefault("FLYER_TIMEZONE", "Local")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		errs = append(errs, fmt.Errorf("FLYER_TIMEZONE: %w", err))
	}

	switch cfg.SessionBackend {
	case BackendMemory, BackendValkey:
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", BackendMemory, BackendValkey, cfg.SessionBackend))
	}

	if cfg.SessionSecret != "" && len(cfg.SessionSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLen))
	}
	if cfg.AdminToken != "" && len(cfg.AdminToken) < minSecretLen {
		errs = append(errs, fmt.Errorf("ADMIN_TOKEN must be at least %d bytes", minSecretLen))
	}

	if cfg.Env == "production" && cfg.SessionBackend == BackendValkey {
		if cfg.ValkeyPassword == "" {
			errs = append(errs, fmt.Errorf("VALKEY_PASSWORD must be set in production"))
		}
		// Stored sessions outlive the process; a random key would orphan them.
		if cfg.SessionSecret == "" {
			errs = append(errs, fmt.Errorf("SESSION_SECRET must be set in production with the valkey backend"))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: %q is not a positive duration", key, v)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: %q is not a positive integer", key, v)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %q is not one of debug, info, warn, error", s)
	}
	return level, nil
}
