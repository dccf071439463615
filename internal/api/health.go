package api

import (
	"net/http"
	"time"

	"github.com/permissionhub/server/internal/api/respond"
)

// HealthHandler answers liveness probes. The service has no hard runtime
// dependencies with the default driver, so a reachable process is a healthy
// one.
type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// CheckHealth GET /api/health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
