package client

import (
	"context"

	domain "github.com/pickupwatch/pickupwatch/pkg/types"
)

// Status fetches the monitor's current state.
func (c *Client) Status(ctx context.Context) (*domain.MonitorStatus, error) {
	var st domain.MonitorStatus
	if err := c.get(ctx, "/api/v1/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// StartMonitor asks the server to start the monitor.
func (c *Client) StartMonitor(ctx context.Context) error {
	return c.post(ctx, "/api/v1/monitor/start", nil)
}

// StopMonitor asks the server to stop the monitor.
func (c *Client) StopMonitor(ctx context.Context) error {
	return c.post(ctx, "/api/v1/monitor/stop", nil)
}
