// Package notify defines the notification interface and implementations
// for availability alert delivery.
package notify

import (
	"context"

	domain "github.com/pickupwatch/pickupwatch/pkg/types"
)

// Notification is a single human-readable alert.
type Notification struct {
	Title    string
	Body     string
	Priority domain.Priority
}

// Notifier defines the interface for delivering notifications. Delivery
// is best-effort: a returned error is logged by the caller and never
// affects monitoring state.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
