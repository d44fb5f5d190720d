package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler provides the liveness endpoint.
type HealthHandler struct {
	nowFunc func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{nowFunc: time.Now}
}

// Healthz returns a static acknowledgement plus the current timestamp.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   h.nowFunc().UTC().Format(time.RFC3339),
	})
}
