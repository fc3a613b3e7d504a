package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"
)

type HealthCheck func(ctx context.Context) error

// HealthHandler runs every dependency check and reports 503 if any fails.
type HealthHandler struct {
	Checks map[string]HealthCheck
	Log    *zap.SugaredLogger
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	result := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			if h.Log != nil {
				h.Log.Warnw("health check failed", "check", name, "error", err)
			}
			result[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}

	body := map[string]interface{}{"status": "ok", "checks": result}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	writeJSON(w, status, body)
}
