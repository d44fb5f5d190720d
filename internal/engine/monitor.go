// Package engine implements the availability monitor: a Stopped/Running
// state machine around a single serialized check loop that fetches,
// parses, diffs, and notifies.
package engine

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pickupwatch/pickupwatch/internal/fetch"
	"github.com/pickupwatch/pickupwatch/internal/notify"
	domain "github.com/pickupwatch/pickupwatch/pkg/types"
)

// Lifecycle misuse errors. These are the only errors the engine surfaces
// to a caller; everything that goes wrong inside a check is absorbed and
// logged, and the loop keeps going until stopped.
var (
	ErrAlreadyRunning = errors.New("monitor already running")
	ErrNotRunning     = errors.New("monitor not running")
)

// Monitor owns the check loop and all mutable monitoring state. All
// state writes happen on the loop goroutine; Start, Stop, and Status may
// be called concurrently from request-handling contexts.
type Monitor struct {
	fetcher  fetch.Fetcher
	notifier notify.Notifier
	log      *slog.Logger

	part     string
	store    string
	interval time.Duration

	nowFunc   func() time.Time
	delayFunc func(time.Duration) <-chan time.Time

	mu            sync.RWMutex
	running       bool
	checkCount    uint64
	lastSnapshot  *domain.Snapshot
	lastCheckedAt *time.Time
	lastError     string
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// Option configures the Monitor.
type Option func(*Monitor)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		m.log = l
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(m *Monitor) {
		m.nowFunc = f
	}
}

// WithDelayFunc overrides how retry delays are awaited, for testing.
func WithDelayFunc(f func(time.Duration) <-chan time.Time) Option {
	return func(m *Monitor) {
		m.delayFunc = f
	}
}

// NewMonitor creates a stopped Monitor for the given part and store.
func NewMonitor(
	f fetch.Fetcher,
	n notify.Notifier,
	part, store string,
	interval time.Duration,
	opts ...Option,
) *Monitor {
	m := &Monitor{
		fetcher:   f,
		notifier:  n,
		log:       slog.Default(),
		part:      part,
		store:     store,
		interval:  interval,
		nowFunc:   time.Now,
		delayFunc: time.After,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start transitions the monitor to Running, performs one immediate check
// on the loop goroutine, then checks on the configured interval. Returns
// ErrAlreadyRunning if the monitor is already running.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	prevDone := m.doneCh
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	m.log.Info("monitor started",
		"part", m.part,
		"store", m.store,
		"interval", m.interval,
	)

	go m.run(stopCh, doneCh, prevDone)
	return nil
}

// Stop transitions the monitor to Stopped. Future ticks are disarmed
// immediately; an in-flight check is allowed to finish and must not
// schedule another one. The Fetcher's resources are released when the
// loop goroutine exits. Returns ErrNotRunning if the monitor is stopped.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return ErrNotRunning
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()

	m.log.Info("monitor stopped")
	return nil
}

// run is the single serialized execution path. A tick arriving while a
// check is in flight is absorbed by the ticker rather than overlapping.
func (m *Monitor) run(stopCh <-chan struct{}, doneCh chan<- struct{}, prevDone <-chan struct{}) {
	defer close(doneCh)
	defer m.fetcher.Teardown()

	// A restart must not overlap the previous loop's in-flight check.
	// The previous stop channel is already closed, so this wait is bounded
	// by that check finishing.
	if prevDone != nil {
		<-prevDone
	}
	select {
	case <-stopCh:
		return
	default:
	}

	m.performCheck(stopCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			m.performCheck(stopCh)
		}
	}
}
