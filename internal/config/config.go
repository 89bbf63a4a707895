package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const defaultSheetAPIURL = "https://script.google.com/macros/s/AKfycbzNbbeO4lm9ATIOYerTzntYjBuva5W9UouH-xA120tz5uX-frmv1Po8Y3hUvGAe5F6p/exec"

type Config struct {
	Port        string `validate:"required,numeric"`
	Environment string `validate:"oneof=development production test"`

	// Remote sheet endpoint. A zero timeout leaves the submission unbounded.
	SheetAPIURL  string        `validate:"required,url"`
	SheetTimeout time.Duration `validate:"gte=0"`

	// Session state: "memory" or "redis"
	SessionStore string        `validate:"oneof=memory redis"`
	SessionTTL   time.Duration `validate:"gt=0"`
	RedisURL     string        `validate:"required_if=SessionStore redis"`

	Events EventConfig
}

// LoadConfig reads configuration from the environment, loading a .env file first when present
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		SheetAPIURL:  getEnv("SHEET_API_URL", defaultSheetAPIURL),
		SheetTimeout: getDuration("SHEET_TIMEOUT", 0),
		SessionStore: getEnv("SESSION_STORE", "memory"),
		SessionTTL:   getDuration("SESSION_TTL", 24*time.Hour),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		Events: EventConfig{
			Enabled:           getBool("EVENTS_ENABLED", false),
			Publisher:         getEnv("EVENTS_PUBLISHER", "kafka"),
			KafkaBrokers:      getEnv("KAFKA_BROKERS", "localhost:9092"),
			NotificationTopic: getEnv("NOTIFICATION_TOPIC", "survey-notifications"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
