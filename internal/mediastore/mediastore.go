// Package mediastore отвечает за хранение загружаемых медиафайлов
// в S3-совместимом объектном хранилище (MinIO).
package mediastore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/aerobickyjov/clubcms/internal/config"
)

// Uploader — минимальный интерфейс загрузки медиафайла.
// Возвращает публичный URL сохранённого объекта.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType, folder string) (string, error)
}

// MinioStore — реализация Uploader поверх MinIO.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *slog.Logger
}

// New создаёт клиент MinIO и проверяет доступность бакета.
// Отсутствующий бакет — ошибка конфигурации, не создаём его молча.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*MinioStore, error) {
	endpoint := cfg.S3Endpoint
	secure := strings.HasPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки бакета %q: %w", cfg.S3Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("бакет %q не существует", cfg.S3Bucket)
	}

	return &MinioStore{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: cfg.S3PublicURL,
		logger:    logger.With(slog.String("component", "mediastore")),
	}, nil
}

// Upload сохраняет объект под случайным именем в каталоге folder.
func (s *MinioStore) Upload(ctx context.Context, r io.Reader, size int64, contentType, folder string) (string, error) {
	objectName := folder + "/" + uuid.NewString() + extensionFor(contentType)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки объекта %s: %w", objectName, err)
	}

	url := s.publicURL + "/" + s.bucket + "/" + objectName
	s.logger.Debug("объект загружен",
		slog.String("object", objectName),
		slog.Int64("size", size))
	return url, nil
}

// Ready проверяет доступность хранилища для readiness-пробы.
func (s *MinioStore) Ready(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("хранилище недоступно: %w", err)
	}
	return nil
}

// Name возвращает имя зависимости для readiness-пробы.
func (s *MinioStore) Name() string { return "minio" }

// Check реализует интерфейс проверки готовности.
func (s *MinioStore) Check(ctx context.Context) error { return s.Ready(ctx) }

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}
