// Package main запускает HTTP-сервер витрины пополнений.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/topup-system/internal/account"
	"github.com/mmeshcher/topup-system/internal/catalog"
	"github.com/mmeshcher/topup-system/internal/checkout"
	"github.com/mmeshcher/topup-system/internal/config"
	"github.com/mmeshcher/topup-system/internal/handler"
	"github.com/mmeshcher/topup-system/internal/kv"
	"github.com/mmeshcher/topup-system/internal/recent"
	"github.com/mmeshcher/topup-system/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var store kv.Store
	if cfg.RedisURI != "" {
		redisStore, err := kv.NewRedisStore(cfg.RedisURI)
		if err != nil {
			sugar.Fatalw("storage initialization error", "error", err.Error())
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		sugar.Info("no redis URI configured, state will not survive restarts")
		store = kv.NewMemoryStore()
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		sugar.Fatalw("catalog initialization error", "error", err.Error())
	}

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer loadCancel()

	accounts, err := account.NewStore(loadCtx, store)
	if err != nil {
		sugar.Fatalw("account state error", "error", err.Error())
	}

	tracker, err := recent.NewTracker(loadCtx, store)
	if err != nil {
		sugar.Fatalw("recently visited state error", "error", err.Error())
	}

	resolver := checkout.NewRandomResolver(checkout.DefaultSuccessRate)
	checkouts := checkout.NewManager(cat, accounts, resolver, checkout.DefaultProcessingDelay, logger)

	svc := service.NewService(cat, accounts, tracker, checkouts)

	h := handler.NewHandler(svc, logger)
	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting topup server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
