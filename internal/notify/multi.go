package notify

import (
	"context"
	"errors"
)

// MultiNotifier fans a notification out to every configured backend.
// Each backend is attempted regardless of earlier failures; the joined
// errors are returned so the caller can log them.
type MultiNotifier struct {
	backends []Notifier
}

// NewMultiNotifier creates a fan-out notifier over the given backends.
func NewMultiNotifier(backends ...Notifier) *MultiNotifier {
	return &MultiNotifier{backends: backends}
}

// Send delivers the notification to all backends.
func (m *MultiNotifier) Send(ctx context.Context, n Notification) error {
	var errs []error
	for _, b := range m.backends {
		if err := b.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
