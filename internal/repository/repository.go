// Пакет repository — слой доступа к данным MongoDB.
// Две независимые коллекции: news и galleries.
package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — документ не найден.
	ErrNotFound = errors.New("документ не найден")
	// ErrConflict — конфликт уникальности (дублирующийся slug).
	ErrConflict = errors.New("конфликт — документ уже существует")
)

// isDuplicateKey проверяет, является ли ошибка нарушением unique-индекса.
func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
