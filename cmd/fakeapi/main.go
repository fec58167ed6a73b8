package main

import (
	"log/slog"
	"os"

	"go-interview-client/internal/app"
	"go-interview-client/internal/config"
	"go-interview-client/internal/logger"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Setup(os.Stdout, cfg.LogLevel)

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
