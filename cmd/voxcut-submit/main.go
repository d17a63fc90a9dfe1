package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/voxcut/voxcut-go/internal/logging"
	"github.com/voxcut/voxcut-go/internal/submit"
)

func main() {
	// Load configuration from environment
	cfg, err := submit.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize structured logger
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting voxcut-submit", "version", "0.1.0")

	// Warn if bearer token is not set
	if cfg.BearerToken == "" {
		logger.Warn("VOXCUT_BEARER_TOKEN is not set, requests may fail if the render service requires auth")
	}

	// Log loaded configuration (without sensitive values)
	logger.Info("configuration loaded",
		"api_url", cfg.APIURL,
		"voice", cfg.Voice,
		"volume", cfg.Volume,
		"interrupt", cfg.Interrupt,
		"ttl_ms", cfg.TTLMS,
		"dedupe_window", cfg.DedupeWindow,
		"prefix", cfg.Prefix,
		"max_text_length", cfg.MaxTextLength,
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	// Read cut lines from stdin and submit them
	client := submit.NewClient(cfg, logger)

	submitted, err := client.Run(ctx, os.Stdin)
	if err != nil {
		logger.Error("submission failed", "error", err, "submitted", submitted)
		os.Exit(1)
	}

	logger.Info("submission complete", "submitted", submitted)
}
