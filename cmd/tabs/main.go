package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pysugar/account-tabs/internal/account"
	"github.com/pysugar/account-tabs/internal/api"
	"github.com/pysugar/account-tabs/internal/config"
	"github.com/pysugar/account-tabs/internal/importer"
	"github.com/pysugar/account-tabs/internal/logging"
	"github.com/pysugar/account-tabs/internal/store"
	"github.com/pysugar/account-tabs/internal/version"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("error closing store", zap.Error(err))
		}
	}()

	svc := account.NewService(st, logger)
	im := importer.New(svc, importer.Options{
		Mode:        cfg.ParseMode(),
		Timeout:     cfg.ImportTimeout(),
		Concurrency: cfg.Import.Concurrency,
	}, logger)

	router := api.NewRouter(api.Deps{
		Accounts:       svc,
		Importer:       im,
		Label:          cfg.Label,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         logger,
	})

	addr := cfg.Addr()
	displayURL := "localhost:" + cfg.Server.Port
	if cfg.Server.Host == "0.0.0.0" {
		displayURL = "<your-ip>:" + cfg.Server.Port
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("🚀 Account Tabs starting",
		zap.String("addr", "http://"+addr),
		zap.String("version", version.String()),
		zap.String("config", cfg.Path),
		zap.String("store", cfg.Store.Backend),
		zap.String("parse_mode", string(cfg.ParseMode())))
	logger.Info("📊 Dashboard", zap.String("url", "http://"+displayURL))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
