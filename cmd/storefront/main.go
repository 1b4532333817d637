package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Vision-Tey/scandi-shop-client/internal/cache"
	"github.com/Vision-Tey/scandi-shop-client/internal/cart"
	"github.com/Vision-Tey/scandi-shop-client/internal/catalog"
	"github.com/Vision-Tey/scandi-shop-client/internal/config"
	"github.com/Vision-Tey/scandi-shop-client/internal/history"
	shophttp "github.com/Vision-Tey/scandi-shop-client/internal/http"
	"github.com/Vision-Tey/scandi-shop-client/internal/order"
	"github.com/Vision-Tey/scandi-shop-client/internal/repository"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Cart persistence: MongoDB when configured, in-memory otherwise.
	var cartRepo repository.CartRepository
	if cfg.MongoURI != "" {
		mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		mongoRepo := repository.NewMongoRepository(mongoDB)
		if err := mongoRepo.CreateIndexes(ctx); err != nil {
			logger.Fatal("Failed to create MongoDB indexes", zap.Error(err))
		}
		cartRepo = mongoRepo
		logger.Info("Connected to MongoDB", zap.String("uri", cfg.MongoURI))
	} else {
		cartRepo = repository.NewMemoryRepository()
		logger.Info("Using in-memory cart repository")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}
	logger.Info("Redis ping succeeded")

	cartCache := cache.NewRedisCache(redisClient)
	cartService := cart.NewService(cartRepo, cartCache, logger)

	catalogStore := catalog.NewStore(catalog.NewClient(cfg.GraphQLEndpoint), logger)
	if err := catalogStore.Load(ctx); err != nil {
		// Browsing retries the load, so a cold backend delays the
		// catalog instead of killing the process.
		logger.Warn("Initial catalog load failed", zap.Error(err))
	}

	historyRepo, err := history.NewRepository(cfg.HistoryDBPath)
	if err != nil {
		logger.Fatal("Failed to open order history database", zap.Error(err))
	}
	defer historyRepo.Close()
	if err := historyRepo.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Fatal("Failed to run order history migrations", zap.Error(err))
	}

	orderClient := order.NewClient(cfg.GraphQLEndpoint)

	var orderService *order.Service
	if len(cfg.KafkaBrokers) > 0 {
		publisher := order.NewPublisher(cfg.KafkaBrokers...)
		defer publisher.Close()
		orderService = order.NewService(orderClient, publisher, historyRepo, logger)
		logger.Info("Kafka publisher enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	} else {
		orderService = order.NewService(orderClient, nil, historyRepo, logger)
		logger.Info("Kafka publisher disabled")
	}

	router := shophttp.NewRouter(
		shophttp.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
		},
		shophttp.NewProductHandler(catalogStore),
		shophttp.NewCartHandler(catalogStore, cartService),
		shophttp.NewOrderHandler(cartService, orderService, historyRepo),
	)

	srv := &stdhttp.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Storefront API listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}
