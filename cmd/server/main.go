package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/api"
	"wanderlist-backend-go/internal/config"
	"wanderlist-backend-go/internal/core"
	"wanderlist-backend-go/internal/db"
	"wanderlist-backend-go/internal/middleware"
	"wanderlist-backend-go/pkg/cache"
	"wanderlist-backend-go/pkg/messagequeue"
)

func newLogger() (*zap.Logger, error) {
	if strings.EqualFold(os.Getenv("GIN_MODE"), "release") {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newFollowCache selects the shared Redis cache when REDIS_ADDR is set. Without
// Redis, follow sets are read from Firestore on every request unless
// FOLLOW_CACHE_TTL explicitly opts into the in-process cache.
func newFollowCache(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (cache.Cache, func()) {
	if appConfig.RedisAddr == "" {
		if appConfig.FollowCacheTTL == 0 {
			logger.Info("Follow-set caching disabled")
			return nil, func() {}
		}
		logger.Warn("Using in-process follow cache; unfollows on other replicas are seen only after the TTL",
			zap.Duration("ttl", appConfig.FollowCacheTTL))
		return cache.NewLocalCache(appConfig.FollowCacheTTL, 2*appConfig.FollowCacheTTL+time.Minute), func() {}
	}
	redisCache, err := cache.NewRedisCache(ctx, cache.NewRedisCacheConfig{
		Address:  appConfig.RedisAddr,
		Password: appConfig.RedisPassword,
		DB:       appConfig.RedisDB,
		Prefix:   "wanderlist:",
	})
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	logger.Info("Using Redis follow cache", zap.String("address", appConfig.RedisAddr), zap.Duration("ttl", appConfig.FollowCacheTTL))
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
}

// newPublisher returns nil when RABBITMQ_URL is not set; activities are then only stored.
func newPublisher(appConfig *config.Config, logger *zap.Logger) (messagequeue.Publisher, func()) {
	if appConfig.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, activity events will not be published")
		return nil, func() {}
	}
	rabbit, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL})
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	logger.Info("Publishing activity events", zap.String("queue", appConfig.ActivityQueue))
	return rabbit, func() {
		if err := rabbit.Close(); err != nil {
			logger.Warn("Failed to close RabbitMQ connection", zap.Error(err))
		}
	}
}

func main() {
	if !strings.EqualFold(os.Getenv("GIN_MODE"), "release") {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded: %v", err)
		}
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync()

	appConfig, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load application configuration", zap.Error(err))
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()

	clients, err := db.InitFirebase(initCtx, appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase", zap.Error(err))
	}
	defer clients.Close()

	followCache, closeCache := newFollowCache(initCtx, appConfig, logger)
	defer closeCache()
	publisher, closePublisher := newPublisher(appConfig, logger)
	defer closePublisher()

	principalRepo := db.NewFirestorePrincipalRepository(clients.Firestore)
	itemRepo := db.NewFirestoreItemRepository(clients.Firestore)
	resourceRepo := db.NewFirestoreResourceRepository(clients.Firestore)
	followRepo := db.NewFirestoreFollowRepository(clients.Firestore)
	activityRepo := db.NewFirestoreActivityRepository(clients.Firestore)

	activity := core.NewActivityService(activityRepo, publisher, appConfig.ActivityQueue, logger)
	guard := core.NewAuthGuard(clients.Auth, principalRepo, appConfig.ConcealForeignResources, logger)
	collections := core.NewCollectionService(itemRepo, guard, activity, logger)
	bucketList := core.NewBucketListService(collections, itemRepo, guard, activity, logger)
	followSets := core.NewFollowSetLoader(followRepo, followCache, appConfig.FollowCacheTTL, logger)
	visibility := core.NewVisibilityService(resourceRepo, principalRepo, followRepo, followSets, guard, activity, logger)

	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
	} else {
		logger.Warn("CORS middleware skipped: CLIENT_URL is not configured")
	}

	api.SetupRoutes(router, logger, api.Services{
		Guard:       guard,
		Collections: collections,
		BucketList:  bucketList,
		Visibility:  visibility,
	})

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting")
}
