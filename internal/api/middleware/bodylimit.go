// bodylimit.go — ограничение размера тела мутирующих запросов.
package middleware

import (
	"fmt"
	"net/http"

	apierrors "github.com/aerobickyjov/clubcms/internal/api/errors"
)

// multipartOverhead — запас на boundary, заголовки частей и текстовые
// поля формы сверх суммарного лимита файлов.
const multipartOverhead = 1 << 20

// BodyLimit возвращает middleware, отклоняющий POST/PUT-запросы
// с телом больше maxBytes (плюс запас на multipart-обвязку).
// Заявленный Content-Length сверх лимита отклоняется сразу, без
// чтения тела; для остальных запросов лимит контролирует MaxBytesReader.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	limit := maxBytes + multipartOverhead
	message := fmt.Sprintf("тело запроса превышает лимит %d байт", maxBytes)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				apierrors.PayloadTooLarge(w, message)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)

			next.ServeHTTP(w, r)
		})
	}
}
