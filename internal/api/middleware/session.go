// session.go — защита административных маршрутов сессионным cookie.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	apierrors "github.com/aerobickyjov/clubcms/internal/api/errors"
	"github.com/aerobickyjov/clubcms/internal/auth"
)

// sessionContextKey — ключ контекста для данных сессии.
type sessionContextKey struct{}

// SessionFromContext возвращает сессию, положенную AdminGuard.
func SessionFromContext(ctx context.Context) *auth.SessionData {
	session, _ := ctx.Value(sessionContextKey{}).(*auth.SessionData)
	return session
}

// AdminGuard возвращает middleware, пропускающий только запросы
// с валидной неистёкшей сессией роли admin. Сессия кладётся в контекст.
func AdminGuard(sessions *auth.SessionManager, logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With(slog.String("component", "admin-guard"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessions.GetSessionFromRequest(r)
			if err != nil {
				log.Warn("невалидный session cookie",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				apierrors.Unauthorized(w, "требуется аутентификация")
				return
			}
			if session == nil || session.IsExpired() {
				apierrors.Unauthorized(w, "требуется аутентификация")
				return
			}
			if session.Role != auth.RoleAdmin {
				log.Warn("доступ запрещён",
					slog.String("username", session.Username),
					slog.String("role", session.Role))
				apierrors.Forbidden(w, "недостаточно прав")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
