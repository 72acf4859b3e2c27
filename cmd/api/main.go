package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aurelhart/storefront-backend/api/controllers"
	"github.com/aurelhart/storefront-backend/api/routes"
	"github.com/aurelhart/storefront-backend/internal/cart"
	"github.com/aurelhart/storefront-backend/internal/cart/storage"
	"github.com/aurelhart/storefront-backend/internal/checkout"
	"github.com/aurelhart/storefront-backend/internal/commerce"
	"github.com/aurelhart/storefront-backend/pkg/config"
	"github.com/aurelhart/storefront-backend/pkg/env"
	"github.com/aurelhart/storefront-backend/pkg/logger"
	"github.com/aurelhart/storefront-backend/pkg/metrics"
	"github.com/aurelhart/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetrics(registry)

	var (
		store cart.SnapshotStore
		cache controllers.Pinger
	)
	switch cfg.Cart.Backend() {
	case config.CartBackendMemory:
		store = storage.NewMemoryStore()
	case config.CartBackendFile:
		fileStore, err := storage.NewFileStore(cfg.Cart.FileDir)
		if err != nil {
			logg.Error(context.Background(), "failed to open cart file store", err)
			os.Exit(1)
		}
		store = fileStore
	default:
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		redisStore, err := storage.NewRedisStore(redisClient, cfg.Cart.SnapshotTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create redis cart store", err)
			os.Exit(1)
		}
		store = redisStore
		cache = redisClient
	}

	commerceClient, err := commerce.NewClient(cfg.Commerce.BaseURL,
		commerce.WithAuth(cfg.Commerce.ConsumerKey, cfg.Commerce.ConsumerSecret),
		commerce.WithHTTPClient(&http.Client{Timeout: cfg.Commerce.RequestTimeout}),
		commerce.WithRetry(cfg.Commerce.RetryMaxAttempt, cfg.Commerce.RetryBackoff),
		commerce.WithMetrics(cartMetrics),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create commerce client", err)
		os.Exit(1)
	}

	cartManager, err := cart.NewManager(store, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartManager, commerceClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cart_backend": cfg.Cart.Backend(),
	})
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, cache, registry, cartManager, commerceClient, checkoutService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
