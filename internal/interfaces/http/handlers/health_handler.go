package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/praxislegal/lexia/pkg/types/common"
)

// Pinger checks one backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness reports that the process is up.
// GET /healthz
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type readinessResponse struct {
	Status     common.HealthStatus      `json:"status"`
	Components []common.ComponentHealth `json:"components"`
}

// Readiness probes every backing dependency with a short deadline.
// GET /readyz
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := readinessResponse{Status: common.HealthUp}
	for name, check := range h.checks {
		start := time.Now()
		err := check.Ping(ctx)
		component := common.ComponentHealth{
			Name:    name,
			Status:  common.HealthUp,
			Latency: time.Since(start),
		}
		if err != nil {
			component.Status = common.HealthDown
			component.Message = err.Error()
			resp.Status = common.HealthDown
		}
		resp.Components = append(resp.Components, component)
	}

	status := http.StatusOK
	if resp.Status != common.HealthUp {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
