// handler.go — общие вспомогательные функции обработчиков API.
// Доменные обработчики (news, gallery, auth, notify) делегируют
// бизнес-логику в сервисный слой и мапят его ошибки на HTTP-коды.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apierrors "github.com/aerobickyjov/clubcms/internal/api/errors"
	"github.com/aerobickyjov/clubcms/internal/service"
)

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// parseMultipart разбирает multipart-форму запроса. Исходная ошибка
// остаётся в цепочке: срабатывание MaxBytesReader при chunked-теле
// должно дойти до writeServiceError как 413, а не 400.
func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return fmt.Errorf("%w: некорректная multipart-форма: %w", service.ErrValidation, err)
	}
	return nil
}

// writeServiceError мапит ошибку сервисного слоя на HTTP-ответ.
// Неопознанная ошибка становится 500 без утечки деталей клиенту.
func writeServiceError(w http.ResponseWriter, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	// Переполнение лимита тела проверяется до ErrValidation:
	// ошибка разбора формы несёт в цепочке обе.
	case errors.As(err, &maxBytes):
		apierrors.PayloadTooLarge(w, "тело запроса превышает лимит")
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, err.Error())
	case errors.Is(err, service.ErrUpload):
		apierrors.UploadError(w, err.Error())
	case errors.Is(err, service.ErrMailUnavailable):
		apierrors.MailUnavailable(w, err.Error())
	default:
		apierrors.InternalError(w, "внутренняя ошибка сервера")
	}
}
