package engine

import domain "github.com/pickupwatch/pickupwatch/pkg/types"

// Status returns an immutable copy of the monitor's current state plus
// its static target parameters. It never blocks on a check in flight
// and never fails.
func (m *Monitor) Status() domain.MonitorStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := domain.MonitorStatus{
		Running:     m.running,
		Interval:    m.interval,
		IntervalMs:  m.interval.Milliseconds(),
		CheckCount:  m.checkCount,
		LastError:   m.lastError,
		TargetPart:  m.part,
		TargetStore: m.store,
	}

	if m.lastSnapshot != nil {
		snap := *m.lastSnapshot
		st.LastSnapshot = &snap
	}
	if m.lastCheckedAt != nil {
		at := *m.lastCheckedAt
		st.LastCheckedAt = &at
	}

	return st
}
