package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler reports service liveness and dependency status
type HealthHandler struct {
	BaseHandler
	service string
	checks  map[string]HealthCheck
	started time.Time
}

// NewHealthHandler creates a health handler running checks on every call
func NewHealthHandler(service string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{service: service, checks: checks, started: time.Now()}
}

// Health handles GET /health. Any failing check turns the answer into 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = "degraded"
			continue
		}
		results[name] = "ok"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": h.service,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"checks":  results,
	})
}
