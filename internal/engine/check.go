package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pickupwatch/pickupwatch/internal/avail"
	"github.com/pickupwatch/pickupwatch/internal/metrics"
	"github.com/pickupwatch/pickupwatch/internal/notify"
	domain "github.com/pickupwatch/pickupwatch/pkg/types"
)

// performCheck runs one full check: fetch with retries, parse, diff,
// conditionally notify, update state. A failed check leaves the last
// snapshot untouched and never stops the loop.
func (m *Monitor) performCheck(stopCh <-chan struct{}) {
	start := time.Now()
	defer func() {
		metrics.CheckDuration.Observe(time.Since(start).Seconds())
	}()

	m.mu.Lock()
	m.checkCount++
	count := m.checkCount
	m.mu.Unlock()
	metrics.ChecksTotal.Inc()

	log := m.log.With("check", count)
	log.Debug("check starting")

	raw, err := m.fetchWithRetry(stopCh, log)
	checkedAt := m.nowFunc()
	if err != nil {
		m.recordFailure(checkedAt, err, log)
		return
	}

	snap, err := avail.Parse(raw, m.part, checkedAt)
	if err != nil {
		m.recordFailure(checkedAt, err, log)
		return
	}

	// Only this goroutine writes lastSnapshot, so reading it before the
	// write below cannot race.
	m.mu.RLock()
	prev := m.lastSnapshot
	m.mu.RUnlock()

	changed := avail.DetectChange(prev, snap)
	if changed {
		log.Info("availability changed",
			"available", snap.Available,
			"message", snap.Message,
		)
	}

	if shouldNotify(prev, snap, changed) {
		m.sendNotification(snap, log)
	}

	m.mu.Lock()
	m.lastSnapshot = &snap
	m.lastCheckedAt = &checkedAt
	m.lastError = ""
	m.mu.Unlock()

	if snap.Available {
		metrics.AvailabilityState.Set(1)
	} else {
		metrics.AvailabilityState.Set(0)
	}

	// Fresh transport identity for the next check.
	m.fetcher.Teardown()

	log.Debug("check complete", "available", snap.Available, "message", snap.Message)
}

// shouldNotify is the complete notification predicate: a transition into
// availability, or the very first observation already being available.
// A transition out of availability never notifies.
func shouldNotify(prev *domain.Snapshot, cur domain.Snapshot, changed bool) bool {
	if !cur.Available {
		return false
	}
	return changed || prev == nil
}

// fetchWithRetry invokes the Fetcher, retrying per policy with a fresh
// transport identity before each retry. It returns the raw payload or
// the terminal failure once the policy gives up.
func (m *Monitor) fetchWithRetry(stopCh <-chan struct{}, log *slog.Logger) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		metrics.FetchAttemptsTotal.Inc()

		raw, err := m.fetcher.Fetch(context.Background())
		if err == nil {
			return raw, nil
		}

		decision := Decide(Classify(err), attempt)
		if !decision.ShouldRetry {
			return nil, err
		}

		log.Warn("fetch failed, retrying",
			"attempt", attempt,
			"delay", decision.Delay,
			"error", err,
		)
		metrics.FetchRetriesTotal.Inc()

		// Session reuse is what trips the upstream's automation
		// detection: every retry gets a fresh transport identity.
		m.fetcher.Teardown()

		select {
		case <-m.delayFunc(decision.Delay):
		case <-stopCh:
			return nil, fmt.Errorf("monitor stopping during retry wait: %w", err)
		}
	}
}

// recordFailure logs a terminal check failure, releases the transport,
// and leaves the last snapshot unchanged. The loop keeps running.
func (m *Monitor) recordFailure(checkedAt time.Time, err error, log *slog.Logger) {
	log.Error("check failed", "error", err)
	metrics.CheckFailuresTotal.Inc()

	m.mu.Lock()
	m.lastCheckedAt = &checkedAt
	m.lastError = err.Error()
	m.mu.Unlock()

	m.fetcher.Teardown()
}

func (m *Monitor) sendNotification(snap domain.Snapshot, log *slog.Logger) {
	body := snap.Message
	if snap.StoreLabel != "" {
		body = fmt.Sprintf("%s at %s", snap.Message, snap.StoreLabel)
	}

	n := notify.Notification{
		Title:    fmt.Sprintf("Pickup available: %s", m.part),
		Body:     body,
		Priority: domain.PriorityHigh,
	}

	if err := m.notifier.Send(context.Background(), n); err != nil {
		log.Error("notification failed", "error", err)
		metrics.NotificationFailuresTotal.Inc()
		return
	}

	metrics.NotificationsSentTotal.Inc()
	log.Info("notification sent", "title", n.Title)
}
