// health.go — обработчики health endpoints CMS.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (MongoDB + MinIO доступны)
// /metrics — Prometheus метрики
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aerobickyjov/clubcms/internal/config"
)

// readyCheckTimeout — лимит на проверку одной зависимости.
const readyCheckTimeout = 5 * time.Second

// Checker — интерфейс проверки готовности зависимости.
type Checker interface {
	// Name возвращает имя зависимости для JSON-ответа.
	Name() string
	// Check возвращает nil, если зависимость доступна.
	Check(ctx context.Context) error
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	checkers    []Checker
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
func NewHealthHandler(checkers ...Checker) *HealthHandler {
	return &HealthHandler{
		checkers:    checkers,
		promHandler: promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthResponse — ответ health probe.
type healthResponse struct {
	Status    string                       `json:"status"`
	Timestamp string                       `json:"timestamp"`
	Version   string                       `json:"version"`
	Service   string                       `json:"service"`
	Checks    map[string]healthCheckResult `json:"checks,omitempty"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "clubcms",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HealthReady — readiness probe. Проверяет все зависимости.
// Возвращает 200 (ok) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "clubcms",
		Checks:    make(map[string]healthCheckResult, len(h.checkers)),
	}

	for _, c := range h.checkers {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		err := c.Check(ctx)
		cancel()

		if err != nil {
			resp.Status = "fail"
			resp.Checks[c.Name()] = healthCheckResult{Status: "fail", Message: err.Error()}
		} else {
			resp.Checks[c.Name()] = healthCheckResult{Status: "ok"}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == "fail" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}
