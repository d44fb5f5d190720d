package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded notifications.
// It is used when no notification backend is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards notifications with a
// log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Send logs and discards the notification.
func (n *NoOpNotifier) Send(_ context.Context, msg Notification) error {
	n.log.Debug("notification discarded (no backend configured)",
		"title", msg.Title,
		"priority", msg.Priority,
	)
	return nil
}
