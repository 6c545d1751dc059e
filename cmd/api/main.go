package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/analytics"
	"github.com/MrJamesThe3rd/pennywise/internal/config"
	"github.com/MrJamesThe3rd/pennywise/internal/database"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/extractor"
	pennywiseHttp "github.com/MrJamesThe3rd/pennywise/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/pennywise/internal/http/analytics"
	exportHandler "github.com/MrJamesThe3rd/pennywise/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/pennywise/internal/http/importfile"
	txHandler "github.com/MrJamesThe3rd/pennywise/internal/http/transaction"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/settings"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pennywise/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	defaultBudget, err := decimal.NewFromString(cfg.Settings.DefaultBudget)
	if err != nil {
		slog.Error("invalid default budget", "value", cfg.Settings.DefaultBudget, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		transactionService = transaction.NewService(txStore.New(db), cfg.Import.Concurrency)
		importService      = importer.NewService()
		exportService      = export.NewService(transactionService)
		analyticsService   = analytics.NewService(transactionService, settings.NewFileStore(cfg.Settings.Path, defaultBudget))
	)

	var (
		transactionH = txHandler.NewHandler(transactionService, extractor.New())
		importH      = importHandler.NewHandler(importService, transactionService, cfg.Import.MaxUploadBytes)
		exportH      = exportHandler.NewHandler(exportService)
		analyticsH   = analyticsHandler.NewHandler(analyticsService, transactionService)
	)

	router := pennywiseHttp.New(cfg.CORS.AllowedOrigins, transactionH, importH, exportH, analyticsH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
