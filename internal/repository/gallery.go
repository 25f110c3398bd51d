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

// GalleryRepository — интерфейс CRUD для коллекции galleries.
type GalleryRepository interface {
	Create(ctx context.Context, entry *model.GalleryEntry) error
	GetByID(ctx context.Context, id string) (*model.GalleryEntry, error)
	// List возвращает все галереи, новые первыми (createdAt desc).
	List(ctx context.Context) ([]*model.GalleryEntry, error)
	Update(ctx context.Context, entry *model.GalleryEntry) error
	Delete(ctx context.Context, id string) error
}

type galleryRepo struct {
	coll *mongo.Collection
}

// NewGalleryRepository создаёт репозиторий галерей.
func NewGalleryRepository(db *mongo.Database) GalleryRepository {
	return &galleryRepo{coll: db.Collection(database.GalleryCollection)}
}

func (r *galleryRepo) Create(ctx context.Context, entry *model.GalleryEntry) error {
	now := time.Now().UTC()
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.Tags == nil {
		entry.Tags = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("ошибка создания галереи: %w", err)
	}
	return nil
}

func (r *galleryRepo) GetByID(ctx context.Context, id string) (*model.GalleryEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	entry := &model.GalleryEntry{}
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения галереи: %w", err)
	}
	return entry, nil
}

func (r *galleryRepo) List(ctx context.Context) ([]*model.GalleryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка галерей: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*model.GalleryEntry
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("ошибка чтения списка галерей: %w", err)
	}
	return result, nil
}

func (r *galleryRepo) Update(ctx context.Context, entry *model.GalleryEntry) error {
	entry.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"title":       entry.Title,
		"description": entry.Description,
		"images":      entry.Images,
		"category":    entry.Category,
		"tags":        entry.Tags,
		"updatedAt":   entry.UpdatedAt,
	}}

	res, err := r.coll.UpdateByID(ctx, entry.ID, update)
	if err != nil {
		return fmt.Errorf("ошибка обновления галереи: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *galleryRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("ошибка удаления галереи: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
