package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/25x8/savings-game/internal/savings/app"
	"github.com/25x8/savings-game/internal/savings/config"
	"github.com/25x8/savings-game/internal/savings/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.NewConfig()

	zl, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}

	err = run(cfg, zl.Sugar())
	_ = zl.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(ctx, cfg, os.Stdin, os.Stdout, log)
	if err != nil {
		log.Errorw("startup failed", "error", err)
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
	}()

	// Wait for the menu to finish or a termination signal
	select {
	case err = <-done:
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout, "\n👋 Goodbye! Your progress has been saved.")
	}

	if shutdownErr := a.Shutdown(); shutdownErr != nil {
		log.Errorw("shutdown failed", "error", shutdownErr)
	}
	if err != nil {
		log.Errorw("app stopped with error", "error", err)
		return err
	}
	log.Infow("app stopped")
	return nil
}
