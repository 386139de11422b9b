package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/apo1397/shopify-integration/internal/api/handlers"
	"github.com/apo1397/shopify-integration/internal/api/middleware"
	"github.com/apo1397/shopify-integration/internal/auth"
	"github.com/apo1397/shopify-integration/internal/config"
	"github.com/apo1397/shopify-integration/internal/service"
	"github.com/apo1397/shopify-integration/internal/session"
	"github.com/apo1397/shopify-integration/internal/shopify"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := session.NewManager(cfg.Session.CookieName, time.Duration(cfg.Session.TTLMinutes)*time.Minute, logger)
	creds := auth.NewMemoryCredentialStore()
	authSvc := auth.NewService(cfg.Shopify, cfg.AppBaseURL, creds, logger)
	client := shopify.NewClient(cfg.Shopify, logger)
	catalog := service.NewCatalogService(client, logger)
	orders := service.NewOrderService(client, logger)

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))
	router.Use(middleware.SessionMiddleware(sessions))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/", handlers.HandleRoot())
	router.GET("/connect", handlers.HandleConnect())

	// OAuth endpoints are the only unauthenticated mutating surface, so
	// they get a per-IP limiter.
	oauthLimiter := middleware.NewRateLimiter(30, 10, logger)
	router.POST("/install", oauthLimiter.Middleware(), handlers.HandleInstall(authSvc, logger))
	router.GET("/oauth/callback", oauthLimiter.Middleware(), handlers.HandleOAuthCallback(authSvc, logger))

	// Everything below needs a connected store
	storeRoutes := router.Group("")
	storeRoutes.Use(middleware.RequireStore(creds, logger))
	{
		storeRoutes.GET("/products", handlers.HandleProductSearch(catalog, logger))
		storeRoutes.POST("/products", handlers.HandleProductSearch(catalog, logger))
		storeRoutes.POST("/customers/search", handlers.HandleCustomerSearch(catalog, logger))
		storeRoutes.GET("/cart", handlers.HandleCartView())
		storeRoutes.POST("/cart/items", handlers.HandleCartAdd(logger))
		storeRoutes.DELETE("/cart/items/:variantId", handlers.HandleCartRemove(logger))
		storeRoutes.POST("/orders", handlers.HandlePlaceOrder(orders, logger))
		storeRoutes.GET("/orders/:id", handlers.HandleOrderStatus(orders, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
