// Точка входа CMS сайта спортивного клуба.
// Загружает конфигурацию, подключается к MongoDB и MinIO, создаёт
// индексы, инициализирует сервисный слой и API handlers, запускает
// HTTP-сервер с сессионной защитой админки и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aerobickyjov/clubcms/internal/api/handlers"
	"github.com/aerobickyjov/clubcms/internal/api/middleware"
	"github.com/aerobickyjov/clubcms/internal/auth"
	"github.com/aerobickyjov/clubcms/internal/config"
	"github.com/aerobickyjov/clubcms/internal/database"
	"github.com/aerobickyjov/clubcms/internal/mailer"
	"github.com/aerobickyjov/clubcms/internal/mediastore"
	"github.com/aerobickyjov/clubcms/internal/repository"
	"github.com/aerobickyjov/clubcms/internal/server"
	"github.com/aerobickyjov/clubcms/internal/service"
	"github.com/aerobickyjov/clubcms/internal/upload"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("CMS запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Подключение к MongoDB и создание индексов
	ctx := context.Background()
	client, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDatabase)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Error("Ошибка создания индексов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Медиахранилище (MinIO)
	media, err := mediastore.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к медиахранилищу", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Почтовый клиент (SMTP)
	smtp := mailer.New(cfg, logger)

	// 6. Repositories
	newsRepo := repository.NewNewsRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)

	// 7. Services
	limits := upload.DefaultLimits()
	newsSvc := service.NewNewsService(newsRepo, media, limits, cfg.AllowEmptyMainImage, logger)
	gallerySvc := service.NewGalleryService(galleryRepo, media, limits, logger)
	notifySvc := service.NewNotifyService(smtp, cfg.MailTo, logger)

	// 8. Сессии и проверка учётных данных администратора
	sessions, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SecureCookies)
	if err != nil {
		logger.Error("Ошибка инициализации сессий", slog.String("error", err.Error()))
		os.Exit(1)
	}
	verifier := auth.NewVerifier(cfg.AdminUsername, cfg.AdminPasswordHash)

	// 9. API handlers
	h := server.Handlers{
		Health:  handlers.NewHealthHandler(database.NewReadinessChecker(client), media),
		Auth:    handlers.NewAuthHandler(verifier, sessions, logger),
		News:    handlers.NewNewsHandler(newsSvc, logger),
		Gallery: handlers.NewGalleryHandler(gallerySvc, logger),
		Notify:  handlers.NewNotifyHandler(notifySvc, logger),
	}

	// 10. HTTP-сервер
	srv := server.New(cfg, logger, h, middleware.AdminGuard(sessions, logger))
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
