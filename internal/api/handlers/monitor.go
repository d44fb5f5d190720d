package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pickupwatch/pickupwatch/internal/engine"
)

// MonitorHandler handles the monitor lifecycle endpoints.
type MonitorHandler struct {
	monitor MonitorController
}

// NewMonitorHandler creates a MonitorHandler.
func NewMonitorHandler(m MonitorController) *MonitorHandler {
	return &MonitorHandler{monitor: m}
}

// LifecycleOutput is the response for the start/stop operations.
type LifecycleOutput struct {
	Body StatusResponse
}

// StartMonitor transitions the monitor to Running. Starting an already
// running monitor is a caller error, reported as a conflict.
func (h *MonitorHandler) StartMonitor(
	_ context.Context,
	_ *struct{},
) (*LifecycleOutput, error) {
	if err := h.monitor.Start(); err != nil {
		if errors.Is(err, engine.ErrAlreadyRunning) {
			return nil, huma.Error409Conflict("monitor already running")
		}
		return nil, huma.Error500InternalServerError("failed to start monitor")
	}
	return &LifecycleOutput{Body: StatusResponse{Status: "started"}}, nil
}

// StopMonitor transitions the monitor to Stopped.
func (h *MonitorHandler) StopMonitor(
	_ context.Context,
	_ *struct{},
) (*LifecycleOutput, error) {
	if err := h.monitor.Stop(); err != nil {
		if errors.Is(err, engine.ErrNotRunning) {
			return nil, huma.Error409Conflict("monitor not running")
		}
		return nil, huma.Error500InternalServerError("failed to stop monitor")
	}
	return &LifecycleOutput{Body: StatusResponse{Status: "stopped"}}, nil
}

// RegisterMonitorRoutes registers the lifecycle routes on the Huma API.
func RegisterMonitorRoutes(api huma.API, h *MonitorHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "start-monitor",
		Method:      http.MethodPost,
		Path:        "/api/v1/monitor/start",
		Summary:     "Start the monitor",
		Tags:        []string{"monitor"},
	}, h.StartMonitor)

	huma.Register(api, huma.Operation{
		OperationID: "stop-monitor",
		Method:      http.MethodPost,
		Path:        "/api/v1/monitor/stop",
		Summary:     "Stop the monitor",
		Tags:        []string{"monitor"},
	}, h.StopMonitor)
}
