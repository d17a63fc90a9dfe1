package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voxcut/voxcut-go/internal/api"
	"github.com/voxcut/voxcut-go/internal/config"
	"github.com/voxcut/voxcut-go/internal/logging"
	"github.com/voxcut/voxcut-go/internal/metrics"
	"github.com/voxcut/voxcut-go/internal/queue"
	"github.com/voxcut/voxcut-go/internal/render"
	"github.com/voxcut/voxcut-go/internal/tts"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		// Use stderr before logger is initialized
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize structured logger
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting voxcut", "version", "0.1.0")

	// Warn if bearer token auth is disabled
	if cfg.AuthDisabled() {
		logger.Warn("HTTP bearer authentication is disabled (BEARER_TOKEN is empty)")
	}

	// Log loaded configuration (without sensitive values)
	logger.Info("configuration loaded",
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"http_port", cfg.HTTPPort,
		"clip_dir", cfg.ClipDir,
		"default_volume", cfg.DefaultVolume,
		"max_text_length", cfg.MaxTextLength,
		"queue_capacity", cfg.QueueCapacity,
		"idle_timeout", cfg.IdleTimeout,
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

	// Register metrics with the default registry served at /metrics
	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize the speech provider registry
	providers := tts.NewRegistry()
	if cfg.TTSEndpoint != "" {
		client, err := tts.NewClient(tts.ClientConfig{
			Endpoint:     cfg.TTSEndpoint,
			APIKey:       cfg.TTSAPIKey,
			Model:        cfg.TTSModel,
			DefaultVoice: cfg.DefaultVoice,
		}, logger)
		if err != nil {
			logger.Warn("failed to initialize speech provider", "error", err)
		} else if err := providers.Register(client); err != nil {
			logger.Warn("failed to register speech provider", "error", err)
		} else {
			logger.Info("speech provider registered", "endpoint", cfg.TTSEndpoint, "model", cfg.TTSModel)
		}
	} else {
		logger.Warn("no TTS endpoint configured, /v1/render jobs will fail; /v1/process still works")
	}

	// Clip sink on the local filesystem
	sink, err := render.NewDirSink(cfg.ClipDir)
	if err != nil {
		logger.Error("failed to create clip directory", "error", err, "dir", cfg.ClipDir)
		os.Exit(1)
	}

	// Create and start the render queue
	renderQueue := queue.NewQueue(cfg.QueueCapacity, cfg.IdleTimeout, logger, m)

	renderQueue.SetIdleCallback(func() {
		logger.Info("render queue idle", "idle_timeout", cfg.IdleTimeout)
	})

	handler := render.NewHandler(providers, sink, logger, m)
	renderQueue.SetRenderHandler(handler.Handle)

	renderQueue.Start()
	defer renderQueue.Stop()

	// Create and start HTTP server
	server := api.New(cfg, logger, renderQueue, m)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
}
