package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/DjordjeVuckovic/essay-grader/internal/poller"
	"github.com/DjordjeVuckovic/essay-grader/pkg/config/env"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL     = "http://localhost:5000"
	DefaultHTTPTimeout = 60 * time.Second
	defaultDotEnvPath  = "cmd/grader/.env"
)

type PollConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"max_attempts"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Config struct {
	BaseURL     string        `yaml:"base_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	Poll        PollConfig    `yaml:"poll"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	LogLevel    string        `yaml:"log_level"`
}

func Default() Config {
	pc := poller.DefaultConfig()
	return Config{
		BaseURL:     DefaultBaseURL,
		HTTPTimeout: DefaultHTTPTimeout,
		Poll: PollConfig{
			Interval:    pc.Interval,
			MaxAttempts: pc.MaxAttempts,
			Timeout:     pc.Timeout,
		},
		LogLevel: "info",
	}
}

// Load builds the client config: defaults, then the YAML file named by
// GRADER_CONFIG, then GRADER_* environment variables (after .env).
func Load() (*Config, error) {
	if err := env.LoadDotEnv(os.Getenv("ENV"), defaultDotEnvPath); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("GRADER_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse reads a YAML document on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	c.BaseURL = env.String("GRADER_BASE_URL", c.BaseURL)
	c.Username = env.String("GRADER_USERNAME", c.Username)
	c.Password = env.String("GRADER_PASSWORD", c.Password)
	c.LogLevel = env.String("LOG_LEVEL", c.LogLevel)

	if c.HTTPTimeout, err = env.Duration("GRADER_HTTP_TIMEOUT", c.HTTPTimeout); err != nil {
		return fmt.Errorf("GRADER_HTTP_TIMEOUT: %w", err)
	}
	if c.Poll.Interval, err = env.Duration("GRADER_POLL_INTERVAL", c.Poll.Interval); err != nil {
		return fmt.Errorf("GRADER_POLL_INTERVAL: %w", err)
	}
	if c.Poll.Timeout, err = env.Duration("GRADER_TIMEOUT", c.Poll.Timeout); err != nil {
		return fmt.Errorf("GRADER_TIMEOUT: %w", err)
	}
	if c.Poll.MaxAttempts, err = env.Int("GRADER_MAX_ATTEMPTS", c.Poll.MaxAttempts); err != nil {
		return fmt.Errorf("GRADER_MAX_ATTEMPTS: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base url %q", c.BaseURL)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return c.PollerConfig().Validate()
}

func (c *Config) PollerConfig() poller.Config {
	return poller.Config{
		Interval:    c.Poll.Interval,
		MaxAttempts: c.Poll.MaxAttempts,
		Timeout:     c.Poll.Timeout,
	}
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
