package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/folio-hub/portfolio-service/internal/cache"
	"github.com/folio-hub/portfolio-service/internal/config"
	"github.com/folio-hub/portfolio-service/internal/events"
	"github.com/folio-hub/portfolio-service/internal/handlers"
	"github.com/folio-hub/portfolio-service/internal/repositories/postgres"
	"github.com/folio-hub/portfolio-service/internal/services"
	"github.com/folio-hub/portfolio-service/internal/session"
	"github.com/folio-hub/portfolio-service/internal/utils"
	"github.com/folio-hub/portfolio-service/internal/validator"
	"github.com/folio-hub/portfolio-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogLogger)
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured); sessions fall back to process memory
	var redisClient *redis.Client
	var sessionStore session.Store
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Failed to initialize Redis, using in-memory sessions", "error", err)
		}
	}
	if redisClient != nil {
		sessionStore = session.NewRedisStore(redisClient)
	} else {
		sessionStore = session.NewMemoryStore(cfg.Session.TTL)
	}

	// Initialize repositories (migrates the schema and seeds the admin account)
	adminHash, err := services.HashPassword(cfg.AdminPassword, services.DefaultServiceManagerConfig().BcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:                db,
		AdminPasswordHash: adminHash,
	})
	if err := repoManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Initialize the event bus
	bus, err := events.NewBus(cfg.Events, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event bus: %v", err)
	}
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	if err := bus.StartAudit(auditCtx); err != nil {
		log.Fatalf("Failed to start event audit: %v", err)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(
		repoManager.GetRepository(),
		slogLogger,
		validator.New(),
		bus,
		cache.NewCacheManager(redisClient),
		services.DefaultServiceManagerConfig(),
	)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := session.NewManager(sessionStore, session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})
	handlerManager := handlers.NewHandlerManager(serviceManager, sessions, logger, handlers.HandlerConfig{
		PhotoMaxBytes: cfg.PhotoMaxBytes,
	})
	router, err := handlerManager.NewRouter()
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	var handler http.Handler = router
	if cfg.CSRFEnabled {
		handler = handlers.ProtectCSRF(router, handlers.CSRFConfig{
			Secret: cfg.SecretKey,
			Secure: cfg.Session.Secure,
		}, logger)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "db_driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown services (closes the event bus)
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}
	stopAudit()

	// Close database connection
	if err := repoManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
