package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aerobickyjov/clubcms/internal/database"
	"github.com/aerobickyjov/clubcms/internal/domain/model"
)

// NewsRepository — интерфейс CRUD для коллекции news.
type NewsRepository interface {
	// Create сохраняет новую статью, присваивая ID и таймстемпы.
	Create(ctx context.Context, article *model.NewsArticle) error
	// GetByID возвращает статью по hex ObjectID.
	GetByID(ctx context.Context, id string) (*model.NewsArticle, error)
	// GetBySlug возвращает статью по slug.
	GetBySlug(ctx context.Context, slug string) (*model.NewsArticle, error)
	// ExistsBySlug проверяет занятость slug, исключая документ excludeID
	// (пустая строка — без исключений).
	ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error)
	// List возвращает все статьи, новые первыми (createdAt desc).
	List(ctx context.Context) ([]*model.NewsArticle, error)
	// Update заменяет изменяемые поля статьи, обновляя updatedAt.
	Update(ctx context.Context, article *model.NewsArticle) error
	// Delete удаляет статью по ID.
	Delete(ctx context.Context, id string) error
}

// newsRepo — реализация NewsRepository поверх MongoDB.
type newsRepo struct {
	coll *mongo.Collection
}

// NewNewsRepository создаёт репозиторий новостей.
func NewNewsRepository(db *mongo.Database) NewsRepository {
	return &newsRepo{coll: db.Collection(database.NewsCollection)}
}

func (r *newsRepo) Create(ctx context.Context, article *model.NewsArticle) error {
	now := time.Now().UTC()
	article.ID = primitive.NewObjectID()
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.PhotoGallery == nil {
		article.PhotoGallery = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, article); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: slug %q уже занят", ErrConflict, article.Slug)
		}
		return fmt.Errorf("ошибка создания новости: %w", err)
	}
	return nil
}

func (r *newsRepo) GetByID(ctx context.Context, id string) (*model.NewsArticle, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Некорректный hex неотличим от несуществующего документа
		return nil, ErrNotFound
	}

	article := &model.NewsArticle{}
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(article)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения новости: %w", err)
	}
	return article, nil
}

func (r *newsRepo) GetBySlug(ctx context.Context, slug string) (*model.NewsArticle, error) {
	article := &model.NewsArticle{}
	err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(article)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения новости по slug: %w", err)
	}
	return article, nil
}

func (r *newsRepo) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	filter := bson.M{"slug": slug}
	if excludeID != "" {
		oid, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return false, ErrNotFound
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	count, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("ошибка проверки slug: %w", err)
	}
	return count > 0, nil
}

func (r *newsRepo) List(ctx context.Context) ([]*model.NewsArticle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка новостей: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*model.NewsArticle
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("ошибка чтения списка новостей: %w", err)
	}
	return result, nil
}

func (r *newsRepo) Update(ctx context.Context, article *model.NewsArticle) error {
	article.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"title":        article.Title,
		"description":  article.Description,
		"content":      article.Content,
		"mainImage":    article.MainImage,
		"photoGallery": article.PhotoGallery,
		"slug":         article.Slug,
		"publishDate":  article.PublishDate,
		"updatedAt":    article.UpdatedAt,
	}}

	res, err := r.coll.UpdateByID(ctx, article.ID, update)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: slug %q уже занят", ErrConflict, article.Slug)
		}
		return fmt.Errorf("ошибка обновления новости: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *newsRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("ошибка удаления новости: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
