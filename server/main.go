package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ticketera/api/routes"
	_ "ticketera/docs"
	"ticketera/internal/notifications"
	"ticketera/internal/payments"
	"ticketera/internal/seats"
	"ticketera/internal/shared/config"
	"ticketera/internal/shared/database"
	"ticketera/pkg/kafka"
	"ticketera/pkg/logger"
	"ticketera/pkg/metrics"
	"ticketera/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title           Ticketera API
// @version         1.0
// @description     Event ticketing and intercity transport marketplace.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		appLogger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	gin.SetMode(cfg.GinMode)
	// Rebuild after the gin mode switch so release builds log JSON
	appLogger = logger.New()
	logger.SetDefault(appLogger)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Seat holds are arbitrated by Lua; load the scripts before the first request
	preloadCtx, preloadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := seats.NewHoldStore(db.GetRedis()).PreloadScripts(preloadCtx); err != nil {
		appLogger.Error("Failed to preload Redis Lua scripts", slog.Any("error", err))
	} else {
		appLogger.Info("Redis Lua scripts preloaded for seat holds")
	}
	preloadCancel()

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedis(), &ratelimit.Config{
			Enabled:                  cfg.RateLimit.Enabled,
			WindowDuration:           cfg.RateLimit.WindowDuration,
			DefaultRequests:          cfg.RateLimit.DefaultRequests,
			PublicRequests:           cfg.RateLimit.PublicRequests,
			AuthRequests:             cfg.RateLimit.AuthRequests,
			CheckoutRequests:         cfg.RateLimit.CheckoutRequests,
			CheckoutCriticalRequests: cfg.RateLimit.CheckoutCriticalRequests,
			AdminRequests:            cfg.RateLimit.AdminRequests,
			HealthRequests:           cfg.RateLimit.HealthRequests,
			WhitelistedIPs:           cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	var producer kafka.Producer
	if cfg.Kafka.Enabled {
		producerConfig := kafka.DefaultProducerConfig(cfg.Kafka.Brokers, cfg.Kafka.ClientID)
		producerConfig.RetryMax = cfg.Kafka.MaxRetries
		producer, err = kafka.NewProducer(producerConfig)
		if err != nil {
			appLogger.Error("failed to create Kafka producer", slog.Any("error", err))
			os.Exit(1)
		}
		defer producer.Close()
	} else {
		appLogger.Info("Kafka disabled: payment confirmations and notifications are processed in-process")
	}

	engine, appRouter := setupRouter(cfg, db, rateLimiter, producer)
	defer appRouter.Close()

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := appRouter.SettingService().EnsureDefaults(seedCtx); err != nil {
		appLogger.Warn("failed to ensure default settings", slog.Any("error", err))
	}
	seedCancel()

	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	scheduler := notifications.NewScheduler(
		appRouter.NotificationService(),
		cfg.Notifications.SchedulerInterval,
		cfg.Notifications.BatchSize,
	)
	scheduler.Start(workerCtx)

	if producer != nil {
		startConsumer(workerCtx, &workers, cfg, cfg.Kafka.PaymentGroupID, cfg.Kafka.PaymentTopic,
			payments.ConfirmationHandler(appRouter.PaymentService()))
		startConsumer(workerCtx, &workers, cfg, cfg.Kafka.NotificationGroupID, cfg.Kafka.NotificationTopic,
			notifications.DispatchHandler(appRouter.NotificationService()))
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_base", cfg.GetAPIBasePath()),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.Bool("kafka", producer != nil),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	workerCancel()
	scheduler.Stop()
	workers.Wait()

	appLogger.Info("Server exited gracefully")
}

func startConsumer(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, groupID, topic string, handler kafka.Handler) {
	appLogger := logger.GetDefault()

	consumerConfig := kafka.DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.ClientID, groupID, topic)
	consumerConfig.MaxRetries = cfg.Kafka.MaxRetries
	consumer, err := kafka.NewConsumer(consumerConfig, handler)
	if err != nil {
		appLogger.Error("failed to create Kafka consumer", slog.String("topic", topic), slog.Any("error", err))
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Run(ctx)
		if err := consumer.Close(); err != nil {
			appLogger.Error("failed to close Kafka consumer", slog.String("topic", topic), slog.Any("error", err))
		}
	}()
}

func setupRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, producer kafka.Producer) (*gin.Engine, *routes.Router) {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	if cfg.Metrics.Enabled {
		engine.Use(metrics.Middleware())
		engine.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", payments.SignatureHeader},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	appRouter := routes.NewRouter(cfg, db, rateLimiter, producer)
	appRouter.SetupRoutes(engine)

	return engine, appRouter
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
