package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/DjordjeVuckovic/essay-grader/internal/server"
	"github.com/DjordjeVuckovic/essay-grader/internal/stubapi"
	"github.com/DjordjeVuckovic/essay-grader/pkg/config/env"
	pkgserver "github.com/DjordjeVuckovic/essay-grader/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(env.String("LOG_LEVEL", "info"))); err == nil {
		slog.SetLogLoggerLevel(lvl)
	}

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	apiCfg, err := stubapi.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load stub config", "error", err)
		os.Exit(1)
	}

	api := stubapi.New(*apiCfg, stubapi.DigestGrader{})
	defer api.Close()

	s := server.New(sCfg, pkgserver.HealthCheckerFunc(api.Healthy)).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Essay grader stub API is running")
	})
	api.Bind(s.Echo)

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, stopping evaluation workers...")
		api.Close()
	}()

	if err := s.Start(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		api.Close()
		os.Exit(1)
	}
}
