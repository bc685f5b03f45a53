package server

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/essay-grader/pkg/config/env"
	"github.com/DjordjeVuckovic/essay-grader/pkg/utils"
)

const (
	DefaultPort    = "5000"
	dotEnvPath     = "cmd/grader_stub/.env"
	allowAnyOrigin = "*"
)

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
}

func LoadConfig() (*Config, error) {
	if err := env.LoadDotEnv(env.String("ENV", ""), dotEnvPath); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	port := env.String("PORT", DefaultPort)
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	return &Config{
		Port:        port,
		UseHttp2:    env.Bool("USE_HTTP2"),
		CorsOrigins: parseOrigins(env.String("CORS_ORIGINS", "")),
	}, nil
}

func parseOrigins(raw string) []string {
	var origins []string
	if raw != "" {
		origins = strings.Split(raw, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		origins = utils.RemoveEmptyStrings(origins)
	}

	if len(origins) == 0 {
		origins = []string{allowAnyOrigin}
	}
	return origins
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
