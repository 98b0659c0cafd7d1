package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/folio-hub/portfolio-service/internal/metrics"
	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/services"
	"github.com/folio-hub/portfolio-service/internal/session"
	"github.com/folio-hub/portfolio-service/internal/utils"
)

const serviceName = "portfolio-service"

// HandlerConfig carries the request limits handlers enforce
type HandlerConfig struct {
	PhotoMaxBytes int64
}

type HandlerManager struct {
	authHandler    *AuthHandler
	userHandler    *UserHandler
	adminHandler   *AdminHandler
	authMiddleware *SessionAuthMiddleware
	serviceManager services.ServiceManager
	logger         utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessions *session.Manager,
	logger utils.Logger,
	cfg HandlerConfig,
) *HandlerManager {
	if cfg.PhotoMaxBytes <= 0 {
		cfg.PhotoMaxBytes = 5 << 20
	}

	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), sessions, logger),
		userHandler:    NewUserHandler(serviceManager.Profile(), sessions, logger, cfg.PhotoMaxBytes),
		adminHandler:   NewAdminHandler(serviceManager.Review(), serviceManager.Export(), sessions, logger, cfg.PhotoMaxBytes),
		authMiddleware: NewSessionAuthMiddleware(sessions, logger),
		serviceManager: serviceManager,
		logger:         logger,
	}
}

// NewRouter builds the gin engine with middleware, views and routes
func (hm *HandlerManager) NewRouter() (*gin.Engine, error) {
	renderer, err := newPageRenderer()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.HTMLRender = renderer
	SetupMiddleware(router, hm.logger)
	hm.SetupRoutes(router)
	return router, nil
}

// SetupRoutes sets up all page routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Operational endpoints stay outside the session middleware
	router.GET("/health", hm.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	pages := router.Group("/")
	pages.Use(hm.authMiddleware.AuthMiddleware())
	{
		pages.GET("/", hm.authHandler.Index)
		pages.GET("/register", hm.authHandler.ShowRegister)
		pages.POST("/register", hm.authHandler.Register)
		pages.GET("/login", hm.authHandler.ShowLogin)
		pages.POST("/login", hm.authHandler.Login)
		pages.GET("/logout", hm.authHandler.Logout)

		// Admin routes
		admin := pages.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("", hm.adminHandler.ReviewQueue)
			admin.GET("/edit_user/:id", hm.adminHandler.ShowEditUser)
			admin.POST("/edit_user/:id", hm.adminHandler.EditUser)
			admin.GET("/export", hm.adminHandler.Export)
		}

		// Profile self-service routes
		user := pages.Group("/user")
		user.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleUser))
		{
			user.GET("", hm.userHandler.Dashboard)
			user.GET("/create_portfolio", hm.userHandler.ShowPortfolioForm)
			user.POST("/save_portfolio", hm.userHandler.SavePortfolio)
			user.GET("/view_portfolio", hm.userHandler.ViewPortfolio)
			user.GET("/generate_resume", hm.userHandler.GenerateResume)
		}
	}
}

// HealthCheck reports liveness and database reachability
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "healthy", http.StatusOK
	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		utils.FromContext(c, hm.logger).Error("Health check failed", "error", err)
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	})
}
