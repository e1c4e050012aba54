package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-relay/app/api"
	"github.com/lysyi3m/rss-relay/app/cfg"
	"github.com/lysyi3m/rss-relay/app/httpx"
	"github.com/lysyi3m/rss-relay/app/pipeline"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	logger, closeLog := setupLogger(appCfg)
	defer closeLog()
	slog.SetDefault(logger)

	slog.Info("Starting RSS Relay",
		"version", appCfg.Version,
		"feeds", len(appCfg.SourceFeeds),
		"max_items", appCfg.MaxItems,
		"translate_to", appCfg.TranslateTo,
		"images", appCfg.WithImages)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := httpx.NewClient(logger, appCfg.UserAgent, appCfg.FetchTimeout)

	relay, err := pipeline.New(appCfg, httpClient, logger)
	if err != nil {
		slog.Error("Failed to set up pipeline", "error", err)
		os.Exit(1)
	}

	if appCfg.Serve {
		if err := serve(ctx, appCfg, relay); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runOnce(ctx, appCfg, relay, os.Stdout); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func runOnce(ctx context.Context, appCfg *cfg.Cfg, relay *pipeline.Pipeline, out io.Writer) error {
	result, err := relay.Run(ctx)
	if err != nil {
		return err
	}

	if err := result.WriteFile(appCfg.Output); err != nil {
		return err
	}

	return result.Report(out, appCfg.Output)
}

func serve(ctx context.Context, appCfg *cfg.Cfg, relay *pipeline.Pipeline) error {
	handler := api.NewHandler(relay, appCfg)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("RSS Relay shutdown complete")
	return nil
}

// setupLogger logs to stderr and, when a log file is configured, to a rotated file as well.
func setupLogger(appCfg *cfg.Cfg) (*slog.Logger, func()) {
	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}

	var output io.Writer = os.Stderr
	closeFn := func() {}

	if appCfg.LogFile != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   appCfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		}
		output = io.MultiWriter(os.Stderr, fileWriter)
		closeFn = func() { _ = fileWriter.Close() }
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeFn
}
