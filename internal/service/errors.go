package service

import (
	"errors"

	"github.com/aerobickyjov/clubcms/internal/repository"
)

// Ошибки сервисного слоя. Хендлеры мапят их на HTTP-коды.
var (
	// ErrNotFound - запрошенный документ не существует.
	ErrNotFound = errors.New("документ не найден")
	// ErrConflict - нарушение уникальности (занятый slug).
	ErrConflict = errors.New("конфликт данных")
	// ErrValidation - входные данные не прошли проверку.
	ErrValidation = errors.New("некорректные данные")
	// ErrUpload - медиахранилище не приняло файл.
	ErrUpload = errors.New("ошибка загрузки файла")
	// ErrMailUnavailable - SMTP-сервер недоступен или отклонил письмо.
	ErrMailUnavailable = errors.New("почтовый сервис недоступен")
)

func isRepoNotFound(err error) bool { return errors.Is(err, repository.ErrNotFound) }
func isRepoConflict(err error) bool { return errors.Is(err, repository.ErrConflict) }
