package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aerobickyjov/clubcms/internal/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// --- BodyLimit ---

func TestBodyLimit_RejectsOversizedContentLength(t *testing.T) {
	handler := BodyLimit(1024)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", strings.NewReader("x"))
	req.ContentLength = 10 << 20
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("статус %d, ожидается 413", rec.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("ошибка разбора тела: %v", err)
	}
	if body.Error.Code != "PAYLOAD_TOO_LARGE" {
		t.Errorf("код ошибки %q, ожидается PAYLOAD_TOO_LARGE", body.Error.Code)
	}
}

func TestBodyLimit_PassesSmallBody(t *testing.T) {
	handler := BodyLimit(1024)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", strings.NewReader("малое тело"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("статус %d, ожидается 200", rec.Code)
	}
}

func TestBodyLimit_IgnoresGET(t *testing.T) {
	handler := BodyLimit(10)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news", nil)
	req.ContentLength = 10 << 20
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("статус %d, ожидается 200: GET лимитом не ограничен", rec.Code)
	}
}

// --- AdminGuard ---

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key", false)
	if err != nil {
		t.Fatalf("ошибка создания SessionManager: %v", err)
	}
	return sm
}

func sessionCookie(t *testing.T, sm *auth.SessionManager, data *auth.SessionData) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := sm.SetSessionCookie(rec, data); err != nil {
		t.Fatalf("ошибка установки cookie: %v", err)
	}
	return rec.Result().Cookies()[0]
}

func TestAdminGuard_NoCookie(t *testing.T) {
	sm := newSessionManager(t)
	handler := AdminGuard(sm, testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус %d, ожидается 401", rec.Code)
	}
}

func TestAdminGuard_InvalidCookie(t *testing.T) {
	sm := newSessionManager(t)
	handler := AdminGuard(sm, testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "подделка"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус %d, ожидается 401", rec.Code)
	}
}

func TestAdminGuard_ExpiredSession(t *testing.T) {
	sm := newSessionManager(t)
	handler := AdminGuard(sm, testLogger())(okHandler())

	cookie := sessionCookie(t, sm, &auth.SessionData{
		Username:  "admin",
		Role:      auth.RoleAdmin,
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус %d, ожидается 401 для истёкшей сессии", rec.Code)
	}
}

func TestAdminGuard_WrongRole(t *testing.T) {
	sm := newSessionManager(t)
	handler := AdminGuard(sm, testLogger())(okHandler())

	cookie := sessionCookie(t, sm, &auth.SessionData{
		Username:  "viewer",
		Role:      "readonly",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("статус %d, ожидается 403", rec.Code)
	}
}

func TestAdminGuard_ValidSession(t *testing.T) {
	sm := newSessionManager(t)

	var gotSession *auth.SessionData
	handler := AdminGuard(sm, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	cookie := sessionCookie(t, sm, &auth.SessionData{
		Username:  "admin",
		Role:      auth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус %d, ожидается 200", rec.Code)
	}
	if gotSession == nil || gotSession.Username != "admin" {
		t.Errorf("сессия в контексте: %+v", gotSession)
	}
}

// --- normalizePath ---

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/news", "/api/v1/news"},
		{"/api/v1/news/64f1a2b3c4d5e6f7a8b9c0d1", "/api/v1/news/{id}"},
		{"/api/v1/news/slug/jarni-zavody", "/api/v1/news/slug/{slug}"},
		{"/api/v1/galleries/64f1a2b3c4d5e6f7a8b9c0d1", "/api/v1/galleries/{id}"},
		{"/health/ready", "/health/ready"},
		{"/metrics", "/metrics"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, ожидается %q", tt.path, got, tt.want)
		}
	}
}
