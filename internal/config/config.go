package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabasePath    string        `yaml:"database_path"`
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	LogLevel        string        `yaml:"log_level"`
	SessionDuration time.Duration `yaml:"session_duration"`
	AllowedOrigins  string        `yaml:"allowed_origins"`
	PublicURL       string        `yaml:"public_url"`

	MailgunDomain      string `yaml:"mailgun_domain"`
	MailgunAPIKey      string `yaml:"mailgun_api_key"`
	MailgunSenderEmail string `yaml:"mailgun_sender_email"`
	MailgunSenderName  string `yaml:"mailgun_sender_name"`
}

func defaults() *Config {
	return &Config{
		DatabasePath:       "fridgeshare.db",
		Port:               "8080",
		Environment:        "production",
		LogLevel:           "INFO",
		SessionDuration:    7 * 24 * time.Hour,
		AllowedOrigins:     "http://localhost:8080",
		PublicURL:          "http://localhost:8080",
		MailgunSenderName:  "Fridgeshare",
		MailgunSenderEmail: "noreply@localhost",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. A .env file in the
// working directory is read first; it never overrides variables already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.AllowedOrigins = getEnv("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.PublicURL = strings.TrimRight(getEnv("PUBLIC_URL", cfg.PublicURL), "/")
	cfg.MailgunDomain = getEnv("MAILGUN_DOMAIN", cfg.MailgunDomain)
	cfg.MailgunAPIKey = getEnv("MAILGUN_API_KEY", cfg.MailgunAPIKey)
	cfg.MailgunSenderEmail = getEnv("MAILGUN_SENDER_EMAIL", cfg.MailgunSenderEmail)
	cfg.MailgunSenderName = getEnv("MAILGUN_SENDER_NAME", cfg.MailgunSenderName)

	if raw := os.Getenv("SESSION_DURATION"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_DURATION %q: %w", raw, err)
		}
		cfg.SessionDuration = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("session duration must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
