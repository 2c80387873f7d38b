package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Client captures configuration for the back-office API client.
type Client struct {
	// APIBaseURL is the root of the back-office API, e.g. https://api.example.com.
	APIBaseURL string
	// CredentialsFile is where the file-backed session store persists tokens.
	CredentialsFile string
	// RequestTimeout bounds every outbound API call.
	RequestTimeout time.Duration
	// RefreshTimeout bounds the token renewal call specifically. A hung renewal
	// would stall every request waiting on the shared renewal result.
	RefreshTimeout time.Duration

	Redis RedisConfig
}

// RedisConfig configures the optional Redis session store backend. An empty
// URL means Redis is not configured and the file store is used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Client config from environment variables so main stays lean.
func FromEnv() Client {
	apiBaseURL := os.Getenv("BACKOFFICE_API_URL")
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:8080"
	}

	credentialsFile := os.Getenv("BACKOFFICE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		credentialsFile = filepath.Join(home, ".backoffice", "credentials.json")
	}

	return Client{
		APIBaseURL:      apiBaseURL,
		CredentialsFile: credentialsFile,
		RequestTimeout:  durationFromEnv("BACKOFFICE_REQUEST_TIMEOUT", 30*time.Second),
		RefreshTimeout:  durationFromEnv("BACKOFFICE_REFRESH_TIMEOUT", 10*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("BACKOFFICE_REDIS_URL"),
			PoolSize:     intFromEnv("BACKOFFICE_REDIS_POOL_SIZE", 10),
			MinIdleConns: intFromEnv("BACKOFFICE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationFromEnv("BACKOFFICE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationFromEnv("BACKOFFICE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationFromEnv("BACKOFFICE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
