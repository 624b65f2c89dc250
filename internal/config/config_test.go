package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGODB_DB_NAME", "")
	t.Setenv("MONGODB_COLLECTION", "")
	t.Setenv("SALES_WEBHOOK_URL", "")
	t.Setenv("DIGEST_CRON_SCHEDULE", "")

	cfg, err := Load("testdata/nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "sales_tracker", cfg.MongoDB.DBName)
	assert.Equal(t, "sales", cfg.MongoDB.Collection)
	assert.Empty(t, cfg.Webhook.URL)
	assert.Empty(t, cfg.Digest.CronSchedule)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")
	t.Setenv("MONGODB_DB_NAME", "shop")
	t.Setenv("MONGODB_COLLECTION", "transactions")
	t.Setenv("SALES_WEBHOOK_URL", "https://hooks.example.com/sales")
	t.Setenv("DIGEST_CRON_SCHEDULE", "0 7 * * *")

	cfg, err := Load("testdata/nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mongodb://db.internal:27017", cfg.MongoDB.URI)
	assert.Equal(t, "shop", cfg.MongoDB.DBName)
	assert.Equal(t, "transactions", cfg.MongoDB.Collection)
	assert.Equal(t, "https://hooks.example.com/sales", cfg.Webhook.URL)
	assert.Equal(t, "0 7 * * *", cfg.Digest.CronSchedule)
}

func TestValidateRejectsEmptyURI(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: "8080"},
		MongoDB: MongoDBConfig{URI: "", DBName: "sales_tracker", Collection: "sales"},
	}
	assert.Error(t, cfg.Validate())
}
