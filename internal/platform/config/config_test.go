package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("BACKOFFICE_API_URL", "")
	t.Setenv("BACKOFFICE_CREDENTIALS_FILE", "")
	t.Setenv("BACKOFFICE_REQUEST_TIMEOUT", "")
	t.Setenv("BACKOFFICE_REDIS_URL", "")

	cfg := FromEnv()

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Contains(t, cfg.CredentialsFile, ".backoffice")
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.RefreshTimeout)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BACKOFFICE_API_URL", "https://api.example.com")
	t.Setenv("BACKOFFICE_CREDENTIALS_FILE", "/tmp/creds.json")
	t.Setenv("BACKOFFICE_REQUEST_TIMEOUT", "5s")
	t.Setenv("BACKOFFICE_REFRESH_TIMEOUT", "2s")
	t.Setenv("BACKOFFICE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("BACKOFFICE_REDIS_POOL_SIZE", "25")

	cfg := FromEnv()

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/creds.json", cfg.CredentialsFile)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.RefreshTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
}

func TestFromEnvIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("BACKOFFICE_REQUEST_TIMEOUT", "soon")
	t.Setenv("BACKOFFICE_REDIS_POOL_SIZE", "many")

	cfg := FromEnv()

	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}
