// Пакет database — подключение к MongoDB и bootstrap индексов.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aerobickyjov/clubcms/internal/config"
)

// Имена коллекций контента.
const (
	NewsCollection    = "news"
	GalleryCollection = "galleries"
)

// Connect подключается к MongoDB и проверяет соединение через ping.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("подключение к MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	logger.Info("Подключение к MongoDB установлено",
		slog.String("database", cfg.MongoDatabase),
	)

	return client, nil
}

// EnsureIndexes создаёт индексы коллекций контента.
// Unique-индекс news.slug — авторитетный источник ConflictError:
// сервисная проверка уникальности slug остаётся лишь быстрой
// оптимизацией до траты загрузок, гонку закрывает индекс.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	newsIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}
	if _, err := db.Collection(NewsCollection).Indexes().CreateMany(ctx, newsIndexes); err != nil {
		return fmt.Errorf("индексы коллекции %s: %w", NewsCollection, err)
	}

	galleryIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}
	if _, err := db.Collection(GalleryCollection).Indexes().CreateMany(ctx, galleryIndexes); err != nil {
		return fmt.Errorf("индексы коллекции %s: %w", GalleryCollection, err)
	}

	return nil
}

// ReadinessChecker проверяет доступность MongoDB для readiness probe.
type ReadinessChecker struct {
	client *mongo.Client
}

// NewReadinessChecker создаёт проверку готовности MongoDB.
func NewReadinessChecker(client *mongo.Client) *ReadinessChecker {
	return &ReadinessChecker{client: client}
}

// Name возвращает имя зависимости для ответа readiness probe.
func (c *ReadinessChecker) Name() string {
	return "mongodb"
}

// Check выполняет ping MongoDB.
func (c *ReadinessChecker) Check(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}
