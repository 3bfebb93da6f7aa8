package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"camera-relay/internal/auth"
	"camera-relay/internal/camera"
	"camera-relay/internal/capture"
	"camera-relay/internal/config"
	"camera-relay/internal/handler"
	"camera-relay/internal/relay"
	"camera-relay/internal/stats"
)

// Application - основное приложение
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	registry *camera.Registry
	stats    *stats.Registry
	router   http.Handler
	server   *http.Server
}

// NewApplication собирает приложение из конфигурации
func NewApplication(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	// Реестр камер read-only после загрузки
	registry, err := camera.NewRegistry(cfg.Cameras)
	if err != nil {
		return nil, err
	}

	statsReg := stats.NewRegistry()
	oauthClient := auth.NewOAuthClient(cfg)

	opener := func(cam camera.Camera) (relay.Source, error) {
		return capture.Open(cam, cfg.Video.JPEGQuality)
	}

	// Создаем хендлеры
	pagesHandler := handler.NewPagesHandler(logger, registry)
	videoHandler := handler.NewVideoHandler(logger, registry, statsReg, opener,
		cfg.Video.SkipInterval, cfg.Security.EnableCORS, cfg.Security.AllowedOrigins)
	authHandler := handler.NewAuthHandler(logger, oauthClient, cfg.BaseURI)

	// Создаем роутер
	router := NewRouter(cfg, pagesHandler, videoHandler, authHandler, logger)

	// Настраиваем CORS поверх роутера
	var h http.Handler = router
	if cfg.Security.EnableCORS {
		corsHandler := cors.New(cors.Options{
			AllowedOrigins:   cfg.Security.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST"},
			AllowCredentials: true,
			MaxAge:           86400,
		})
		h = corsHandler.Handler(router)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: h,
	}

	return &Application{
		config:   cfg,
		logger:   logger,
		registry: registry,
		stats:    statsReg,
		router:   h,
		server:   server,
	}, nil
}

// Run запускает сервер и ждет сигнала завершения через ctx
func (app *Application) Run(ctx context.Context) error {
	return app.run(ctx, func() error {
		return app.server.ListenAndServe()
	})
}

// RunTLS запускает сервер с TLS
func (app *Application) RunTLS(ctx context.Context, certFile, keyFile string) error {
	return app.run(ctx, func() error {
		return app.server.ListenAndServeTLS(certFile, keyFile)
	})
}

func (app *Application) run(ctx context.Context, listen func() error) error {
	errChan := make(chan error, 1)

	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
			zap.Int("cameras", app.registry.Len()))

		if err := listen(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		app.logger.Info("Shutdown signal received")
	case err := <-errChan:
		app.logger.Error("HTTP server error", zap.Error(err))
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	app.logger.Info("Server stopped gracefully")
	return nil
}

// GetRouter возвращает роутер
func (app *Application) GetRouter() http.Handler {
	return app.router
}
