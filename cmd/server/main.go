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

	httpadapter "github.com/folioflow/portfolio-backend/internal/adapter/http"
	"github.com/folioflow/portfolio-backend/internal/adapter/pricing"
	"github.com/folioflow/portfolio-backend/internal/adapter/repository/postgres"
	"github.com/folioflow/portfolio-backend/internal/config"
	"github.com/folioflow/portfolio-backend/internal/usecase/portfolio"
	"github.com/folioflow/portfolio-backend/internal/usecase/snapshot"
	"github.com/folioflow/portfolio-backend/internal/usecase/valuation"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Log.Level)
	defer logger.Sync()

	// 2. Database
	db, err := postgres.NewDB(cfg.Database.DSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	holdingRepo := postgres.NewHoldingRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)

	// 3. Services
	priceClient := pricing.NewClient(cfg.Pricing.BaseURL, cfg.Pricing.Timeout)
	portfolioService := portfolio.NewService(holdingRepo)
	valuationService := valuation.NewService(holdingRepo, priceClient, logger)
	snapshotJob := snapshot.NewJob(holdingRepo, snapshotRepo, valuationService, logger)

	// 4. Daily snapshot trigger
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Snapshot.Enabled {
		scheduler := snapshot.NewScheduler(snapshotJob, cfg.Snapshot.Hour, cfg.Snapshot.Minute, logger)
		go scheduler.Start(ctx)
	} else {
		logger.Info("snapshot scheduler disabled")
	}

	// 5. HTTP server
	handler := httpadapter.NewHandler(portfolioService, snapshotJob, logger)
	router := httpadapter.NewRouter(handler, cfg.Server.AuthToken)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	waitForShutdown(server, cancel, logger)
}

// newLogger builds a production zap logger at the configured level
func newLogger(level string) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	if parsed, err := zap.ParseAtomicLevel(level); err == nil {
		zapCfg.Level = parsed
	}
	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the
// server and the snapshot scheduler.
func waitForShutdown(server *http.Server, cancel context.CancelFunc, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("received signal, shutting down gracefully", zap.String("signal", sig.String()))

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
}
