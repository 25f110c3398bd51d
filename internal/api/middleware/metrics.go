// metrics.go — Prometheus HTTP метрики CMS.
// Регистрирует метрики: cms_http_requests_total, cms_http_request_duration_seconds.
// Нормализация путей предотвращает взрывной рост кардинальности.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_http_requests_total",
			Help: "Общее количество HTTP-запросов к CMS",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cms_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к CMS в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет ID-сегменты пути на {id}/{slug} для предотвращения
// взрывного роста кардинальности метрик.
// /api/v1/news/64f1a2... → /api/v1/news/{id}
// /api/v1/news/slug/jarni-zavody → /api/v1/news/slug/{slug}
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/v1/news", "/api/v1/galleries",
		"/api/v1/contact", "/api/v1/newsletter",
		"/api/v1/auth/login", "/api/v1/auth/logout", "/api/v1/auth/me":
		return path
	}

	if rest, ok := strings.CutPrefix(path, "/api/v1/news/slug/"); ok && rest != "" {
		return "/api/v1/news/slug/{slug}"
	}
	if rest, ok := strings.CutPrefix(path, "/api/v1/news/"); ok && rest != "" {
		return "/api/v1/news/{id}"
	}
	if rest, ok := strings.CutPrefix(path, "/api/v1/galleries/"); ok && rest != "" {
		return "/api/v1/galleries/{id}"
	}

	return path
}
