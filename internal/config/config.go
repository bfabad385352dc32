package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the storefront client configuration: YAML file with defaults
// applied for missing fields, environment variables taking precedence.
type Config struct {
	// APIBaseURL is the remote storefront backend.
	APIBaseURL string `yaml:"apiBaseUrl"`

	// DataDir holds the session file and the guest basket envelope.
	DataDir string `yaml:"dataDir"`

	RequestTimeoutSeconds int `yaml:"requestTimeoutSeconds"`
	BasketExpiryDays      int `yaml:"basketExpiryDays"`

	// RedisAddr switches the guest basket to the shared Redis store when
	// set; empty means the file store.
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDb"`

	// FacadeAddr is the loopback address the local HTTP facade listens on.
	FacadeAddr string `yaml:"facadeAddr"`
}

func defaults() *Config {
	dataDir := ".clo-storefront"
	if home, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(home, "clo-storefront")
	}
	return &Config{
		APIBaseURL:            "http://localhost:5000",
		DataDir:               dataDir,
		RequestTimeoutSeconds: 30,
		BasketExpiryDays:      30,
		FacadeAddr:            "127.0.0.1:8090",
	}
}

// Load reads the config file at path, falling back to defaults when it does
// not exist. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := defaults()

	raw, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.APIBaseURL = getEnv("STOREFRONT_API_URL", cfg.APIBaseURL)
	cfg.DataDir = getEnv("STOREFRONT_DATA_DIR", cfg.DataDir)
	cfg.RedisAddr = getEnv("STOREFRONT_REDIS_ADDR", cfg.RedisAddr)
	cfg.FacadeAddr = getEnv("STOREFRONT_FACADE_ADDR", cfg.FacadeAddr)

	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = 30
	}
	if cfg.BasketExpiryDays <= 0 {
		cfg.BasketExpiryDays = 30
	}
	return cfg, nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) BasketExpiry() time.Duration {
	return time.Duration(c.BasketExpiryDays) * 24 * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
