package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/comite-agua/ledger/internal/auth"
	"github.com/comite-agua/ledger/internal/cache"
	"github.com/comite-agua/ledger/internal/config"
	"github.com/comite-agua/ledger/internal/httpapi"
	"github.com/comite-agua/ledger/internal/service"
	"github.com/comite-agua/ledger/internal/storage/sqlite"
	"github.com/comite-agua/ledger/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	configSvc := service.NewConfigService(store, logger)

	var ledgerOpts []service.LedgerOption
	if cfg.CacheEnabled() {
		receipts, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer receipts.Close()
		ledgerOpts = append(ledgerOpts, service.WithReceiptCache(receipts))
		logger.Info("Receipt cache enabled", "address", cfg.Redis.Address, "ttl", cfg.Redis.ReceiptTTL)
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	router := httpapi.NewRouter(httpapi.Services{
		Auth:     service.NewAuthService(auth.NewPinAuthenticator(configSvc), jwtManager, logger),
		Config:   configSvc,
		Concepts: service.NewConceptService(store, logger),
		Users:    service.NewUserService(store, logger),
		Ledger:   service.NewLedgerService(store, configSvc, logger, ledgerOpts...),
	}, jwtManager, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      h2c.NewHandler(router, &http2.Server{}),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "address", srv.Addr)
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
