package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Innayatullahh/skydragon-test/utils"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// PingFunc checks one dependency.
type PingFunc func(ctx context.Context) error

// StateFunc reports the state of a component that does not affect readiness,
// such as the event publisher's circuit breaker.
type StateFunc func() string

type HealthHandler struct {
	checks map[string]PingFunc
	states map[string]StateFunc
	logger hclog.Logger
}

func NewHealthHandler(checks map[string]PingFunc, logger hclog.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger.Named("health")}
}

func (h *HealthHandler) WithStates(states map[string]StateFunc) *HealthHandler {
	h.states = states
	return h
}

type healthReport struct {
	Status string             `json:"status"`
	Checks map[string]string  `json:"checks"`
	States map[string]string  `json:"states,omitempty"`
	System *utils.SystemStats `json:"system,omitempty"`
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	report := healthReport{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			h.logger.Warn("dependency unhealthy", "dependency", name, "error", err)
			report.Checks[name] = "down"
			report.Status = "degraded"
			continue
		}
		report.Checks[name] = "up"
	}

	if len(h.states) > 0 {
		report.States = make(map[string]string, len(h.states))
		for name, state := range h.states {
			report.States[name] = state()
		}
	}

	if stats, err := utils.GetSystemStats(); err == nil {
		report.System = &stats
	}

	if report.Status != "ok" {
		utils.ServiceUnavailable(c, "One or more dependencies are unavailable", report)
		return
	}
	c.JSON(http.StatusOK, report)
}
