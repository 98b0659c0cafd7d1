package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/folio-hub/portfolio-service/internal/cache"
	"github.com/folio-hub/portfolio-service/internal/events"
	"github.com/folio-hub/portfolio-service/internal/repositories"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// BcryptCost is the work factor for new password hashes
	BcryptCost int
}

// DefaultServiceManagerConfig returns the production settings
func DefaultServiceManagerConfig() ServiceManagerConfig {
	return ServiceManagerConfig{BcryptCost: bcrypt.DefaultCost}
}

// Validate validates the service manager configuration
func (config *ServiceManagerConfig) Validate() error {
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    events.Publisher
	cache     *cache.CacheManager
	config    ServiceManagerConfig

	// Service instances
	authService    AuthService
	profileService ProfileService
	reviewService  ReviewService
	exportService  ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies.
// A nil publisher drops events; a nil cache manager disables caching.
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.Publisher, cacheManager *cache.CacheManager, config ServiceManagerConfig) ServiceManager {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil)
	}
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    publisher,
		cache:     cacheManager,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := sm.config.Validate(); err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.logger, sm.validator, sm.events, sm.cache, sm.config.BcryptCost)
	sm.profileService = NewProfileService(sm.repo, sm.logger, sm.validator, sm.events, sm.cache)
	sm.reviewService = NewReviewService(sm.repo, sm.logger, sm.validator, sm.events, sm.cache)
	sm.exportService = NewExportService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Profile() ProfileService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.profileService
}

func (sm *serviceManager) Review() ReviewService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.reviewService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	// Redis is optional; when configured it backs sessions and must answer
	if sm.cache.Stats.Available() {
		if err := sm.cache.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache health check failed: %w", err)
		}
	}

	return nil
}

// Shutdown closes the event publisher. The repository is owned by its manager.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.events.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
