// Package handler provides HTTP handlers for the management API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/metarwatch/metarwatch/internal/api/models"
	"github.com/metarwatch/metarwatch/internal/api/response"
)

// DependencyCheck reports whether a named dependency is reachable.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    []DependencyCheck
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, checks ...DependencyCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. It pings every
// registered dependency and reports FAIL with 503 when any is unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	for _, check := range h.checks {
		subsystem := models.SubsystemStatus{Name: check.Name, Status: models.HealthStatusOK}
		if err := check.Check(ctx); err != nil {
			detail := err.Error()
			subsystem.Status = models.HealthStatusFail
			subsystem.Detail = &detail
			status.Status = models.HealthStatusFail
		}
		status.Subsystems = append(status.Subsystems, subsystem)
	}

	code := http.StatusOK
	if status.Status != models.HealthStatusOK {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, status)
}
