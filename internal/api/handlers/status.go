package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/pickupwatch/pickupwatch/pkg/types"
)

// MonitorController is what the API handlers need from the engine.
type MonitorController interface {
	Start() error
	Stop() error
	Status() domain.MonitorStatus
}

// StatusHandler handles GET /api/v1/status.
type StatusHandler struct {
	monitor MonitorController
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(m MonitorController) *StatusHandler {
	return &StatusHandler{monitor: m}
}

// StatusOutput is the response for GET /api/v1/status.
type StatusOutput struct {
	Body domain.MonitorStatus
}

// GetStatus returns the monitor's current state. It reflects the engine
// at call time: no caching, no staleness window.
func (h *StatusHandler) GetStatus(
	_ context.Context,
	_ *struct{},
) (*StatusOutput, error) {
	return &StatusOutput{Body: h.monitor.Status()}, nil
}

// RegisterStatusRoutes registers the status route on the Huma API.
func RegisterStatusRoutes(api huma.API, h *StatusHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Get monitor status",
		Description: "Returns the monitor's running state, check count, and last known availability.",
		Tags:        []string{"monitor"},
	}, h.GetStatus)
}
