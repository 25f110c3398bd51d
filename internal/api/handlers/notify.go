// notify.go — обработчики публичных форм: контакт и newsletter.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apierrors "github.com/aerobickyjov/clubcms/internal/api/errors"
	"github.com/aerobickyjov/clubcms/internal/service"
)

// Notifier — операции почтовых уведомлений, нужные обработчику.
type Notifier interface {
	Contact(in service.ContactInput) error
	Newsletter(email string) error
}

// NotifyHandler — обработчик /api/v1/contact и /api/v1/newsletter.
type NotifyHandler struct {
	notify Notifier
	logger *slog.Logger
}

// NewNotifyHandler создаёт обработчик публичных форм.
func NewNotifyHandler(notify Notifier, logger *slog.Logger) *NotifyHandler {
	return &NotifyHandler{
		notify: notify,
		logger: logger.With(slog.String("component", "notify-handler")),
	}
}

// contactRequest — тело запроса POST /api/v1/contact.
type contactRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

// newsletterRequest — тело запроса POST /api/v1/newsletter.
type newsletterRequest struct {
	Email string `json:"email"`
}

// messageResponse — подтверждение успешной отправки.
type messageResponse struct {
	Message string `json:"message"`
}

// Contact — POST /api/v1/contact. Публичная форма обратной связи.
func (h *NotifyHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса")
		return
	}

	err := h.notify.Contact(service.ContactInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Zpráva byla úspěšně odeslána."})
}

// Newsletter — POST /api/v1/newsletter. Подписка на рассылку.
func (h *NotifyHandler) Newsletter(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса")
		return
	}

	if err := h.notify.Newsletter(req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Úspěšně jste se přihlásili k newsletteru!"})
}
