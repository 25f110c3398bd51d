package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// TestSessionEncryptDecryptRoundTrip проверяет шифрование и дешифрование SessionData.
func TestSessionEncryptDecryptRoundTrip(t *testing.T) {
	sm, err := NewSessionManager("test-session-key", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}

	original := &SessionData{
		Username:  "admin",
		Role:      RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	encrypted, err := sm.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if encrypted == "" {
		t.Fatal("Зашифрованная строка пустая")
	}

	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	if decrypted.Username != original.Username {
		t.Errorf("Username: want %q, got %q", original.Username, decrypted.Username)
	}
	if decrypted.Role != original.Role {
		t.Errorf("Role: want %q, got %q", original.Role, decrypted.Role)
	}
	if decrypted.ExpiresAt != original.ExpiresAt {
		t.Errorf("ExpiresAt: want %d, got %d", original.ExpiresAt, decrypted.ExpiresAt)
	}
}

// TestSessionManagerRequiresKey проверяет, что пустой ключ отклоняется.
func TestSessionManagerRequiresKey(t *testing.T) {
	if _, err := NewSessionManager("", false); err == nil {
		t.Fatal("SessionManager создан без ключа, ожидалась ошибка")
	}
}

// TestDecryptTampered проверяет отказ при подделке cookie.
func TestDecryptTampered(t *testing.T) {
	sm, err := NewSessionManager("test-session-key", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}

	encrypted, err := sm.Encrypt(&SessionData{Username: "admin", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	tampered := encrypted[:len(encrypted)-4] + "AAAA"
	if _, err := sm.Decrypt(tampered); err == nil {
		t.Error("Подделанная сессия дешифрована без ошибки")
	}

	if _, err := sm.Decrypt("не base64"); err == nil {
		t.Error("Мусорная строка дешифрована без ошибки")
	}
}

// TestDecryptWithDifferentKey проверяет, что чужой ключ не читает сессию.
func TestDecryptWithDifferentKey(t *testing.T) {
	sm1, _ := NewSessionManager("key-one", false)
	sm2, _ := NewSessionManager("key-two", false)

	encrypted, err := sm1.Encrypt(&SessionData{Username: "admin"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	if _, err := sm2.Decrypt(encrypted); err == nil {
		t.Error("Сессия дешифрована чужим ключом")
	}
}

// TestSessionCookieRoundTrip проверяет установку и чтение cookie.
func TestSessionCookieRoundTrip(t *testing.T) {
	sm, err := NewSessionManager("test-session-key", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}

	data := &SessionData{
		Username:  "admin",
		Role:      RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	rec := httptest.NewRecorder()
	if err := sm.SetSessionCookie(rec, data); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Установлено %d cookie, ожидается 1", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != SessionCookieName {
		t.Errorf("Имя cookie %q, ожидается %q", cookie.Name, SessionCookieName)
	}
	if !cookie.HttpOnly {
		t.Error("Cookie без HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(cookie)

	got, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ошибка чтения сессии из запроса: %v", err)
	}
	if got == nil || got.Username != "admin" {
		t.Errorf("Сессия из запроса: %+v", got)
	}
}

// TestGetSessionNoCookie: отсутствие cookie — не ошибка, а nil-сессия.
func TestGetSessionNoCookie(t *testing.T) {
	sm, _ := NewSessionManager("test-session-key", false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	got, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ошибка при отсутствии cookie: %v", err)
	}
	if got != nil {
		t.Errorf("Сессия без cookie: %+v", got)
	}
}

// TestClearSessionCookie проверяет сброс cookie при logout.
func TestClearSessionCookie(t *testing.T) {
	sm, _ := NewSessionManager("test-session-key", false)

	rec := httptest.NewRecorder()
	sm.ClearSessionCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Установлено %d cookie, ожидается 1", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("MaxAge = %d, ожидается -1", cookies[0].MaxAge)
	}
}

// TestSessionIsExpired проверяет вычисление истечения сессии.
func TestSessionIsExpired(t *testing.T) {
	fresh := &SessionData{ExpiresAt: time.Now().Add(time.Hour).Unix()}
	if fresh.IsExpired() {
		t.Error("Свежая сессия помечена истёкшей")
	}

	stale := &SessionData{ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	if !stale.IsExpired() {
		t.Error("Истёкшая сессия помечена живой")
	}
}

// TestVerifier проверяет сравнение учётных данных.
func TestVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Ошибка генерации хеша: %v", err)
	}
	v := NewVerifier("admin", string(hash))

	if !v.Verify("admin", "correct-horse") {
		t.Error("Корректные данные отклонены")
	}
	if v.Verify("admin", "wrong") {
		t.Error("Неверный пароль принят")
	}
	if v.Verify("root", "correct-horse") {
		t.Error("Неверный логин принят")
	}
}
