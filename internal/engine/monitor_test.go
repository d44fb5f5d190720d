package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPart  = "MQ023LL/A"
	testStore = "R172"
)

// quietLogger returns a logger that discards output for tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// immediateDelay makes retry waits resolve instantly.
func immediateDelay(time.Duration) <-chan time.Time {
	ch := make(chan time.Time)
	close(ch)
	return ch
}

type fetchResult struct {
	payload []byte
	err     error
}

// scriptedFetcher replays a fixed sequence of fetch results; the last
// entry repeats once the script is exhausted.
type scriptedFetcher struct {
	mu        sync.Mutex
	script    []fetchResult
	calls     int
	teardowns int
}

func (f *scriptedFetcher) Fetch(context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := min(f.calls, len(f.script)-1)
	f.calls++
	return f.script[idx].payload, f.script[idx].err
}

func (f *scriptedFetcher) Teardown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teardowns++
}

func (f *scriptedFetcher) fetchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *scriptedFetcher) teardownCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teardowns
}

func testPayload(quote string) []byte {
	return fmt.Appendf(nil, `{
		"body": {
			"stores": [{
				"storeNumber": %q,
				"storeName": "Union Square",
				"partsAvailability": {%q: {"pickupSearchQuote": %q}}
			}]
		}
	}`, testStore, testPart, quote)
}

func newTestMonitor(f *scriptedFetcher, n *fakeNotifier, interval time.Duration) *Monitor {
	return NewMonitor(f, n, testPart, testStore, interval,
		WithLogger(quietLogger()),
		WithDelayFunc(immediateDelay),
	)
}

func TestStatus_BeforeFirstCheck(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(&scriptedFetcher{script: []fetchResult{{}}}, &fakeNotifier{}, time.Minute)

	st := m.Status()
	assert.False(t, st.Running)
	assert.Zero(t, st.CheckCount)
	assert.Nil(t, st.LastSnapshot)
	assert.Nil(t, st.LastCheckedAt)
	assert.Equal(t, testPart, st.TargetPart)
	assert.Equal(t, testStore, st.TargetStore)
	assert.Equal(t, time.Minute.Milliseconds(), st.IntervalMs)
}

func TestStart_Twice(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{{payload: testPayload("Currently unavailable")}}}
	m := newTestMonitor(f, &fakeNotifier{}, time.Hour)

	require.NoError(t, m.Start())
	defer func() { _ = m.Stop() }()

	err := m.Start()
	require.ErrorIs(t, err, ErrAlreadyRunning)
	assert.True(t, m.Status().Running)
}

func TestStop_WhileStopped(t *testing.T) {
	t.Parallel()

	m := newTestMonitor(&scriptedFetcher{script: []fetchResult{{}}}, &fakeNotifier{}, time.Hour)
	require.ErrorIs(t, m.Stop(), ErrNotRunning)
}

func TestStartStop_Cycle(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{{payload: testPayload("Currently unavailable")}}}
	m := newTestMonitor(f, &fakeNotifier{}, time.Hour)

	require.NoError(t, m.Start())
	assert.True(t, m.Status().Running)

	require.NoError(t, m.Stop())
	assert.False(t, m.Status().Running)

	// The loop goroutine releases the transport on exit.
	assert.Eventually(t, func() bool {
		return f.teardownCalls() > 0
	}, time.Second, 5*time.Millisecond)

	// A stopped monitor can be started again.
	require.NoError(t, m.Start())
	require.NoError(t, m.Stop())
}

func TestRun_ChecksOnInterval(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{{payload: testPayload("Currently unavailable")}}}
	m := newTestMonitor(f, &fakeNotifier{}, 10*time.Millisecond)

	require.NoError(t, m.Start())
	defer func() { _ = m.Stop() }()

	assert.Eventually(t, func() bool {
		return m.Status().CheckCount >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestStop_NoFurtherChecks(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{{payload: testPayload("Currently unavailable")}}}
	m := newTestMonitor(f, &fakeNotifier{}, 10*time.Millisecond)

	require.NoError(t, m.Start())
	assert.Eventually(t, func() bool {
		return m.Status().CheckCount >= 1
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, m.Stop())

	counted := m.Status().CheckCount
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, counted, m.Status().CheckCount)
}

// gatedFetcher blocks its first fetch until released and records how many
// fetches were ever in flight at once.
type gatedFetcher struct {
	release chan struct{}

	mu       sync.Mutex
	calls    int
	inFlight int
	maxSeen  int
}

func (f *gatedFetcher) Fetch(context.Context) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	first := f.calls == 1
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	if first {
		<-f.release
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return testPayload("Currently unavailable"), nil
}

func (f *gatedFetcher) Teardown() {}

func (f *gatedFetcher) fetchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *gatedFetcher) maxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxSeen
}

func TestRestart_WaitsForInFlightCheck(t *testing.T) {
	t.Parallel()

	f := &gatedFetcher{release: make(chan struct{})}
	n := &fakeNotifier{}
	m := NewMonitor(f, n, testPart, testStore, time.Hour,
		WithLogger(quietLogger()),
		WithDelayFunc(immediateDelay),
	)

	require.NoError(t, m.Start())

	// First check's fetch is now blocked in flight.
	require.Eventually(t, func() bool {
		return f.fetchCalls() == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, m.Stop())
	require.NoError(t, m.Start())
	defer func() { _ = m.Stop() }()

	// The restarted loop must not begin a check while the old one is
	// still running.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, f.fetchCalls())

	close(f.release)

	require.Eventually(t, func() bool {
		return f.fetchCalls() == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1, f.maxInFlight())
}

func TestStatus_ReturnsCopy(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{{payload: testPayload("Available Today")}}}
	m := newTestMonitor(f, &fakeNotifier{}, time.Hour)

	m.performCheck(nil)

	st := m.Status()
	require.NotNil(t, st.LastSnapshot)
	st.LastSnapshot.Message = "mutated"

	assert.Equal(t, "Available Today", m.Status().LastSnapshot.Message)
}
