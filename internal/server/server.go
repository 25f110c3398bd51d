// Пакет server — HTTP-сервер CMS с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aerobickyjov/clubcms/internal/api/handlers"
	"github.com/aerobickyjov/clubcms/internal/api/middleware"
	"github.com/aerobickyjov/clubcms/internal/config"
	"github.com/aerobickyjov/clubcms/internal/upload"
)

// Handlers — доменные обработчики, монтируемые на маршруты.
type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	News    *handlers.NewsHandler
	Gallery *handlers.GalleryHandler
	Notify  *handlers.NotifyHandler
}

// Server — HTTP-сервер CMS.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
// adminGuard защищает мутирующие маршруты и GET по ID.
func New(cfg *config.Config, logger *slog.Logger, h Handlers, adminGuard func(http.Handler) http.Handler) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.BodyLimit(upload.MaxUploadSizePerRequest))

	// Health и metrics — без аутентификации, проверяются Kubernetes напрямую.
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	router.Route("/api/v1", func(r chi.Router) {
		// Публичные маршруты сайта
		r.Get("/news", h.News.List)
		r.Get("/news/slug/{slug}", h.News.GetBySlug)
		r.Get("/galleries", h.Gallery.List)
		r.Post("/contact", h.Notify.Contact)
		r.Post("/newsletter", h.Notify.Newsletter)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		// Административные маршруты за сессионной защитой
		r.Group(func(r chi.Router) {
			r.Use(adminGuard)
			r.Get("/auth/me", h.Auth.Me)

			r.Post("/news", h.News.Create)
			r.Get("/news/{id}", h.News.GetByID)
			r.Put("/news/{id}", h.News.Update)
			r.Delete("/news/{id}", h.News.Delete)

			r.Post("/galleries", h.Gallery.Create)
			r.Get("/galleries/{id}", h.Gallery.GetByID)
			r.Put("/galleries/{id}", h.Gallery.Update)
			r.Delete("/galleries/{id}", h.Gallery.Delete)
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
