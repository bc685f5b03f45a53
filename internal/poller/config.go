package poller

import (
	"errors"
	"time"
)

const (
	DefaultInterval = 2 * time.Second
	// DefaultMaxAttempts of 0 polls until the job ends or the timeout fires.
	DefaultMaxAttempts = 0
	DefaultTimeout     = 10 * time.Minute
)

type Config struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
		Timeout:     DefaultTimeout,
	}
}

func (c Config) Validate() error {
	if c.Interval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.MaxAttempts < 0 {
		return errors.New("max attempts must not be negative")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}
