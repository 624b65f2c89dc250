package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Webhook WebhookConfig
	Digest  DigestConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for the MongoDB entry store.
type MongoDBConfig struct {
	URI        string
	DBName     string
	Collection string
}

// WebhookConfig configures the optional outbound sale notification. An empty
// URL disables the notifier.
type WebhookConfig struct {
	URL string
}

// DigestConfig configures the optional daily digest job. An empty schedule
// disables the scheduler entirely.
type DigestConfig struct {
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:        getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName:     getenvWithDefault("MONGODB_DB_NAME", "sales_tracker"),
			Collection: getenvWithDefault("MONGODB_COLLECTION", "sales"),
		},
		Webhook: WebhookConfig{
			URL: os.Getenv("SALES_WEBHOOK_URL"),
		},
		Digest: DigestConfig{
			CronSchedule: os.Getenv("DIGEST_CRON_SCHEDULE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must not be empty")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must not be empty")
	case c.MongoDB.Collection == "":
		return errors.New("MONGODB_COLLECTION must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
