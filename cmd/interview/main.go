package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-interview-client/internal/config"
	"go-interview-client/internal/logger"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(2)
	}

	log := logger.Setup(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli, err := newCLI(cfg, os.Stdin, os.Stdout, log)
	if err != nil {
		slog.Error("failed to initialize client", "error", err)
		os.Exit(1)
	}

	code := cli.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
