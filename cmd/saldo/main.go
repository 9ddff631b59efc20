package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"saldo/internal/amqp"
	"saldo/internal/auth"
	"saldo/internal/billing"
	"saldo/internal/config"
	apphttp "saldo/internal/http"
	"saldo/internal/importer"
	"saldo/internal/log"
	"saldo/internal/services"
	"saldo/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without it report sharing returns an error but the
	// rest of the API works.
	var publisher services.ReportPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, report sharing disabled", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	}

	rules, err := importer.LoadEmbedded()
	if err != nil {
		logger.Error("Failed to load categorization rules", "error", err)
		os.Exit(1)
	}

	price, err := decimal.NewFromString(cfg.PlanPrice)
	if err != nil {
		logger.Error("Invalid plan price", "error", err, "plan_price", cfg.PlanPrice)
		os.Exit(1)
	}

	dashboards := services.NewDashboardService(repo, repo)
	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Verifier:   auth.NewVerifier(cfg.JWTSecret, cfg.TokenIssuer),
		Store:      repo,
		Dashboards: dashboards,
		Reports:    services.NewReportService(dashboards, publisher),
		Plan: billing.Plan{
			Name:         "saldo",
			MonthlyPrice: price,
			TrialDays:    cfg.TrialDays,
			GraceDays:    cfg.GraceDays,
		},
		Rules:    rules,
		CacheTTL: cfg.CacheTTL,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting saldo server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
