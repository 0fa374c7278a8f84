package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fabric-sort/config"
	"fabric-sort/internal/container"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if !cfg.Simulation && cfg.ModelPath == "" {
		log.Fatal("FABRIC_MODEL_PATH is required outside simulation mode")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Собираем конвейер
	c, err := container.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("fabric sort pipeline is running",
		"simulation", cfg.Simulation,
		"threshold", cfg.DetectionThreshold,
		"frame_rate", cfg.FrameRate,
	)

	if err := c.Orchestrator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Pipeline error: %v", err)
	}

	logger.Info("shutdown complete")
}
