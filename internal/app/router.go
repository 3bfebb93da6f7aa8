package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"camera-relay/internal/auth"
	"camera-relay/internal/config"
	"camera-relay/internal/handler"
)

// NewRouter создает новый роутер с настройкой маршрутов
func NewRouter(
	cfg *config.Config,
	pagesHandler *handler.PagesHandler,
	videoHandler *handler.VideoHandler,
	authHandler *handler.AuthHandler,
	logger *zap.Logger,
) http.Handler {

	// Режим Gin
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			logger.Info("HTTP Request",
				zap.String("method", param.Method),
				zap.String("path", param.Path),
				zap.Int("status", param.StatusCode),
				zap.Duration("latency", param.Latency),
				zap.String("client_ip", param.ClientIP),
			)
			return ""
		},
	}))

	router.Use(gin.Recovery())
	router.Use(auth.SessionMiddleware(cfg.Auth.SessionSecret))

	// Единственная точка авторизации для защищенных маршрутов
	gate := auth.RequireAuth(cfg.Auth.AllowedPrincipals, logger)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "camera-relay",
			"time":    time.Now().Unix(),
		})
	})

	pagesHandler.RegisterRoutes(router, gate)
	videoHandler.RegisterRoutes(router, gate)
	authHandler.RegisterRoutes(router)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found",
			"path":    c.Request.URL.Path,
		})
	})

	return router
}
