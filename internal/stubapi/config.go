package stubapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/essay-grader/pkg/config/env"
	"github.com/DjordjeVuckovic/essay-grader/pkg/utils"
)

const (
	DefaultProcessingDelay = 3 * time.Second
	DefaultJobTTL          = 5 * time.Minute
	// MinEssayBytes rejects uploads too short to be an essay.
	MinEssayBytes = 100
)

type Config struct {
	ProcessingDelay time.Duration
	JobTTL          time.Duration
	// Users maps username to password.
	Users map[string]string
}

func DefaultConfig() Config {
	return Config{
		ProcessingDelay: DefaultProcessingDelay,
		JobTTL:          DefaultJobTTL,
		Users:           map[string]string{"jurado": "jurado"},
	}
}

// LoadConfigFromEnv reads STUB_PROCESSING_DELAY, STUB_JOB_TTL and STUB_USERS
// ("user:pass,user2:pass2").
func LoadConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()

	var err error
	if cfg.ProcessingDelay, err = env.Duration("STUB_PROCESSING_DELAY", cfg.ProcessingDelay); err != nil {
		return nil, fmt.Errorf("STUB_PROCESSING_DELAY: %w", err)
	}
	if cfg.JobTTL, err = env.Duration("STUB_JOB_TTL", cfg.JobTTL); err != nil {
		return nil, fmt.Errorf("STUB_JOB_TTL: %w", err)
	}

	if raw := env.String("STUB_USERS", ""); raw != "" {
		users, err := parseUsers(raw)
		if err != nil {
			return nil, err
		}
		cfg.Users = users
	}
	return &cfg, nil
}

func parseUsers(raw string) (map[string]string, error) {
	entries := utils.RemoveEmptyStrings(strings.Split(raw, ","))
	users := make(map[string]string, len(entries))
	for _, e := range entries {
		name, pass, ok := strings.Cut(strings.TrimSpace(e), ":")
		if !ok || name == "" || pass == "" {
			return nil, fmt.Errorf("STUB_USERS: invalid entry %q, want user:password", e)
		}
		users[name] = pass
	}
	return users, nil
}
