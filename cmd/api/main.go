package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"vibeapi/internal/app"
	"vibeapi/internal/config"
	"vibeapi/internal/logging"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fatal("cannot load configuration", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fatal("cannot build logger", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("cannot start application", zap.Error(err))
	}
	defer func() { _ = application.Close() }()

	// WriteTimeout leaves room for REQUEST_TIMEOUT plus the response itself.
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      application.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", cfg.Addr),
			zap.String("llm_provider", cfg.LLMProvider),
			zap.Int("rate_limit", cfg.RateLimit),
			zap.Duration("rate_window", cfg.RateWindow),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func fatal(msg string, err error) {
	_, _ = os.Stderr.WriteString(msg + ": " + err.Error() + "\n")
	os.Exit(1)
}
