package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeLive  Mode = "live"
)

type Config struct {
	Mode Mode `yaml:"mode"`

	Port string `yaml:"port"`

	// Conversational-AI backend.
	BackendBaseURL string        `yaml:"backend_base_url"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`

	UseMockBackend bool `yaml:"use_mock_backend"` // true = canned replies, no network
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func defaults() *Config {
	return &Config{
		Mode:           ModeLocal,
		Port:           "8080",
		BackendBaseURL: "http://localhost:8000/chatbot",
		BackendTimeout: 60 * time.Second,
		UseMockBackend: true,
	}
}

// Load builds the config from defaults, an optional YAML file, and finally
// environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if cfg.Mode == ModeLive && cfg.BackendBaseURL == "" {
		return nil, fmt.Errorf("SUPPORTCHAT_BACKEND_URL must be set in live mode")
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	switch getEnv("SUPPORTCHAT_MODE", string(c.Mode)) {
	case "live":
		c.Mode = ModeLive
	default:
		c.Mode = ModeLocal
	}

	c.Port = getEnv("SUPPORTCHAT_PORT", c.Port)
	c.BackendBaseURL = getEnv("SUPPORTCHAT_BACKEND_URL", c.BackendBaseURL)

	mockDefault := c.UseMockBackend
	if c.Mode == ModeLive {
		mockDefault = false
	}
	c.UseMockBackend = getBoolEnv("SUPPORTCHAT_USE_MOCK_BACKEND", mockDefault)

	if v := os.Getenv("SUPPORTCHAT_BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.BackendTimeout = d
		}
	}
}
