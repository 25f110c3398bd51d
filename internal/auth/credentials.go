package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Verifier проверяет учётные данные единственного администратора.
// Пароль хранится только в виде bcrypt-хеша.
type Verifier struct {
	username     string
	passwordHash string
}

// NewVerifier создаёт проверку учётных данных.
func NewVerifier(username, passwordHash string) *Verifier {
	return &Verifier{username: username, passwordHash: passwordHash}
}

// Verify сравнивает пару логин/пароль с настроенными данными.
// Обе проверки выполняются всегда, чтобы время ответа не выдавало,
// какая из них не прошла.
func (v *Verifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)) == nil
	return userOK && passOK
}
