package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/Mimoh123/saleTracker/internal/config"
	"github.com/Mimoh123/saleTracker/internal/repository/mongodb"
	"github.com/Mimoh123/saleTracker/internal/scheduler"
	"github.com/Mimoh123/saleTracker/internal/server/handlers"
	"github.com/Mimoh123/saleTracker/internal/server/router"
	salessvc "github.com/Mimoh123/saleTracker/internal/service/sales"
	"github.com/Mimoh123/saleTracker/pkg/clients/webhook"
	"github.com/Mimoh123/saleTracker/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	saleRepo := mongodb.NewSaleRepository(cfg.MongoDB, baseLogger.Named("repo.mongodb"))
	defer func() {
		if err := saleRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var notifier webhook.Notifier
	if cfg.Webhook.URL != "" {
		notifier = webhook.NewClient(cfg.Webhook.URL)
		baseLogger.Info("sale webhook notifier enabled")
	}

	salesSvc := salessvc.NewService(saleRepo, notifier, baseLogger.Named("svc.sales"))
	salesHandler := handlers.NewSalesHandler(salesSvc, baseLogger.Named("handlers.sales"))
	engine := router.New(salesHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Digest, salesSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
