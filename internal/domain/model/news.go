// Пакет model — доменные модели контента клубного сайта.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewsArticle — новость клуба.
// Slug — человекочитаемый идентификатор для публичных URL, уникален
// в пределах коллекции news (unique-индекс), неизменяемая публичная
// идентичность, отдельная от ObjectID.
type NewsArticle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Content      string             `bson:"content" json:"content"`
	MainImage    string             `bson:"mainImage" json:"mainImage"`
	PhotoGallery []string           `bson:"photoGallery" json:"photoGallery"`
	Slug         string             `bson:"slug" json:"slug"`
	PublishDate  time.Time          `bson:"publishDate" json:"publishDate"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
