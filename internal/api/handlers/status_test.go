package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickupwatch/pickupwatch/internal/api/handlers"
	"github.com/pickupwatch/pickupwatch/internal/engine"
	domain "github.com/pickupwatch/pickupwatch/pkg/types"
)

// fakeMonitor implements handlers.MonitorController with scripted results.
type fakeMonitor struct {
	startErr error
	stopErr  error
	status   domain.MonitorStatus

	startCalls int
	stopCalls  int
}

func (f *fakeMonitor) Start() error {
	f.startCalls++
	return f.startErr
}

func (f *fakeMonitor) Stop() error {
	f.stopCalls++
	return f.stopErr
}

func (f *fakeMonitor) Status() domain.MonitorStatus {
	return f.status
}

func TestGetStatus_BeforeFirstCheck(t *testing.T) {
	t.Parallel()

	h := handlers.NewStatusHandler(&fakeMonitor{status: domain.MonitorStatus{
		Running:     true,
		IntervalMs:  300000,
		TargetPart:  "MQ023LL/A",
		TargetStore: "R172",
	}})

	_, api := humatest.New(t)
	handlers.RegisterStatusRoutes(api, h)

	resp := api.Get("/api/v1/status")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"running":true`)
	assert.Contains(t, resp.Body.String(), `"check_count":0`)
	assert.Contains(t, resp.Body.String(), `"last_known_status":null`)
	assert.Contains(t, resp.Body.String(), `"target_part":"MQ023LL/A"`)
	assert.Contains(t, resp.Body.String(), `"target_store":"R172"`)
}

func TestGetStatus_WithSnapshot(t *testing.T) {
	t.Parallel()

	observed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	h := handlers.NewStatusHandler(&fakeMonitor{status: domain.MonitorStatus{
		Running:    true,
		CheckCount: 7,
		LastSnapshot: &domain.Snapshot{
			Available:  true,
			Message:    "Available Today",
			StoreLabel: "Union Square",
			ObservedAt: observed,
		},
	}})

	_, api := humatest.New(t)
	handlers.RegisterStatusRoutes(api, h)

	resp := api.Get("/api/v1/status")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"check_count":7`)
	assert.Contains(t, resp.Body.String(), `"available":true`)
	assert.Contains(t, resp.Body.String(), `"message":"Available Today"`)
}

func TestStartMonitor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		startErr   error
		wantStatus int
	}{
		{name: "starts stopped monitor", startErr: nil, wantStatus: http.StatusOK},
		{name: "conflict when already running", startErr: engine.ErrAlreadyRunning, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fm := &fakeMonitor{startErr: tt.startErr}
			h := handlers.NewMonitorHandler(fm)

			_, api := humatest.New(t)
			handlers.RegisterMonitorRoutes(api, h)

			resp := api.Post("/api/v1/monitor/start")
			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, 1, fm.startCalls)
		})
	}
}

func TestStopMonitor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stopErr    error
		wantStatus int
	}{
		{name: "stops running monitor", stopErr: nil, wantStatus: http.StatusOK},
		{name: "conflict when not running", stopErr: engine.ErrNotRunning, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fm := &fakeMonitor{stopErr: tt.stopErr}
			h := handlers.NewMonitorHandler(fm)

			_, api := humatest.New(t)
			handlers.RegisterMonitorRoutes(api, h)

			resp := api.Post("/api/v1/monitor/stop")
			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, 1, fm.stopCalls)
		})
	}
}
