// auth.go — обработчики аутентификации администратора.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/aerobickyjov/clubcms/internal/api/errors"
	"github.com/aerobickyjov/clubcms/internal/api/middleware"
	"github.com/aerobickyjov/clubcms/internal/auth"
)

// CredentialsVerifier — проверка пары логин/пароль.
type CredentialsVerifier interface {
	Verify(username, password string) bool
}

// AuthHandler — обработчик login/logout/me.
type AuthHandler struct {
	verifier CredentialsVerifier
	sessions *auth.SessionManager
	logger   *slog.Logger
}

// NewAuthHandler создаёт обработчик аутентификации.
func NewAuthHandler(verifier CredentialsVerifier, sessions *auth.SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "auth-handler")),
	}
}

// loginRequest — тело запроса POST /api/v1/auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionResponse — данные текущей сессии.
type sessionResponse struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

// Login — POST /api/v1/auth/login.
// При успехе устанавливает зашифрованный session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса")
		return
	}
	if req.Username == "" || req.Password == "" {
		apierrors.ValidationError(w, "username и password обязательны")
		return
	}

	if !h.verifier.Verify(req.Username, req.Password) {
		h.logger.Warn("неудачная попытка входа",
			slog.String("username", req.Username),
			slog.String("remote_addr", r.RemoteAddr))
		apierrors.Unauthorized(w, "неверный логин или пароль")
		return
	}

	session := &auth.SessionData{
		Username:  req.Username,
		Role:      auth.RoleAdmin,
		ExpiresAt: time.Now().Add(auth.SessionCookieMaxAge * time.Second).Unix(),
	}
	if err := h.sessions.SetSessionCookie(w, session); err != nil {
		h.logger.Error("ошибка установки сессии", slog.String("error", err.Error()))
		apierrors.InternalError(w, "внутренняя ошибка сервера")
		return
	}

	h.logger.Info("администратор вошёл", slog.String("username", req.Username))
	writeJSON(w, http.StatusOK, sessionResponse{
		Username:  session.Username,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout — POST /api/v1/auth/logout. Сбрасывает session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me — GET /api/v1/auth/me. Возвращает данные текущей сессии.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		apierrors.Unauthorized(w, "требуется аутентификация")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Username:  session.Username,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt,
	})
}
