package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GalleryEntry — фотогалерея клуба.
// Инвариант: у сохранённой галереи всегда минимум одно изображение.
type GalleryEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Images      []string           `bson:"images" json:"images"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Tags        []string           `bson:"tags" json:"tags"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
