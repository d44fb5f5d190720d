package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickupwatch/pickupwatch/internal/fetch"
	"github.com/pickupwatch/pickupwatch/internal/notify"
	domain "github.com/pickupwatch/pickupwatch/pkg/types"
)

// fakeNotifier captures sent notifications and optionally fails.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestShouldNotify(t *testing.T) {
	t.Parallel()

	available := domain.Snapshot{Available: true, Message: "Available Today"}
	unavailable := domain.Snapshot{Available: false, Message: "Currently unavailable"}

	tests := []struct {
		name    string
		prev    *domain.Snapshot
		cur     domain.Snapshot
		changed bool
		want    bool
	}{
		{name: "first observation available", prev: nil, cur: available, changed: false, want: true},
		{name: "first observation unavailable", prev: nil, cur: unavailable, changed: false, want: false},
		{name: "transition into available", prev: &unavailable, cur: available, changed: true, want: true},
		{name: "transition out of available", prev: &available, cur: unavailable, changed: true, want: false},
		{name: "steady available", prev: &available, cur: available, changed: false, want: false},
		{name: "steady unavailable", prev: &unavailable, cur: unavailable, changed: false, want: false},
		{name: "message change while unavailable", prev: &unavailable, cur: domain.Snapshot{Available: false, Message: "Sold out"}, changed: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, shouldNotify(tt.prev, tt.cur, tt.changed))
		})
	}
}

func TestPerformCheck_NotifiesOnTransitionIntoAvailable(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{
		{payload: testPayload("Currently unavailable")},
		{payload: testPayload("Available Today")},
	}}
	n := &fakeNotifier{}
	m := newTestMonitor(f, n, time.Hour)

	m.performCheck(nil)
	assert.Equal(t, 0, n.sentCount())

	m.performCheck(nil)
	require.Equal(t, 1, n.sentCount())

	assert.Equal(t, "Pickup available: "+testPart, n.sent[0].Title)
	assert.Equal(t, "Available Today at Union Square", n.sent[0].Body)
	assert.Equal(t, domain.PriorityHigh, n.sent[0].Priority)
}

func TestPerformCheck_FirstObservationAvailableNotifies(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{{payload: testPayload("Available Today")}}}
	n := &fakeNotifier{}
	m := newTestMonitor(f, n, time.Hour)

	m.performCheck(nil)
	assert.Equal(t, 1, n.sentCount())
}

func TestPerformCheck_SteadyAvailableDoesNotRenotify(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{{payload: testPayload("Available Today")}}}
	n := &fakeNotifier{}
	m := newTestMonitor(f, n, time.Hour)

	m.performCheck(nil)
	m.performCheck(nil)
	assert.Equal(t, 1, n.sentCount())
}

func TestPerformCheck_TransitionOutNeverNotifies(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{
		{payload: testPayload("Available Today")},
		{payload: testPayload("Currently unavailable")},
	}}
	n := &fakeNotifier{}
	m := newTestMonitor(f, n, time.Hour)

	m.performCheck(nil)
	require.Equal(t, 1, n.sentCount())

	m.performCheck(nil)
	assert.Equal(t, 1, n.sentCount())

	// State still advances to the unavailable snapshot.
	st := m.Status()
	require.NotNil(t, st.LastSnapshot)
	assert.False(t, st.LastSnapshot.Available)
}

func TestPerformCheck_MessageChangeWhileAvailableNotifies(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{
		{payload: testPayload("Available Today")},
		{payload: testPayload("Available Today at 5pm")},
	}}
	n := &fakeNotifier{}
	m := newTestMonitor(f, n, time.Hour)

	m.performCheck(nil)
	m.performCheck(nil)
	assert.Equal(t, 2, n.sentCount())
}

func TestPerformCheck_RetryableFailureExhaustsAttempts(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{
		{err: &fetch.Error{Err: errors.New("connection reset")}},
	}}
	n := &fakeNotifier{}
	m := newTestMonitor(f, n, time.Hour)

	m.performCheck(nil)

	// Initial attempt plus three retries, each retry preceded by a
	// transport teardown, plus the final teardown of the failed check.
	assert.Equal(t, 4, f.fetchCalls())
	assert.Equal(t, 4, f.teardownCalls())
	assert.Equal(t, 0, n.sentCount())

	st := m.Status()
	assert.EqualValues(t, 1, st.CheckCount)
	assert.Nil(t, st.LastSnapshot)
	assert.NotEmpty(t, st.LastError)
}

func TestPerformCheck_AntiBotStatusRetried(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{
		{err: &fetch.Error{StatusCode: 403, Err: errors.New("forbidden")}},
	}}
	m := newTestMonitor(f, &fakeNotifier{}, time.Hour)

	m.performCheck(nil)
	assert.Equal(t, 4, f.fetchCalls())
}

func TestPerformCheck_TerminalFailuresNotRetried(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "other HTTP status", err: &fetch.Error{StatusCode: 500, Err: errors.New("server error")}},
		{name: "timeout", err: &fetch.Error{Timeout: true, Err: errors.New("deadline exceeded")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := &scriptedFetcher{script: []fetchResult{{err: tt.err}}}
			m := newTestMonitor(f, &fakeNotifier{}, time.Hour)

			m.performCheck(nil)
			assert.Equal(t, 1, f.fetchCalls())
			assert.EqualValues(t, 1, m.Status().CheckCount)
		})
	}
}

func TestPerformCheck_FailedCheckKeepsLastSnapshot(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{
		{payload: testPayload("Available Today")},
		{err: &fetch.Error{StatusCode: 500, Err: errors.New("server error")}},
	}}
	m := newTestMonitor(f, &fakeNotifier{}, time.Hour)

	m.performCheck(nil)
	m.performCheck(nil)

	st := m.Status()
	assert.EqualValues(t, 2, st.CheckCount)
	require.NotNil(t, st.LastSnapshot)
	assert.True(t, st.LastSnapshot.Available)
	assert.NotEmpty(t, st.LastError)
}

func TestPerformCheck_MalformedPayloadTreatedAsTerminal(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{
		{payload: []byte("<html>blocked</html>")},
	}}
	n := &fakeNotifier{}
	m := newTestMonitor(f, n, time.Hour)

	m.performCheck(nil)

	st := m.Status()
	assert.EqualValues(t, 1, st.CheckCount)
	assert.Nil(t, st.LastSnapshot)
	assert.NotEmpty(t, st.LastError)
	assert.Equal(t, 0, n.sentCount())
	assert.Equal(t, 1, f.teardownCalls())
}

func TestPerformCheck_SuccessClearsLastError(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{
		{err: &fetch.Error{StatusCode: 500, Err: errors.New("server error")}},
		{payload: testPayload("Currently unavailable")},
	}}
	m := newTestMonitor(f, &fakeNotifier{}, time.Hour)

	m.performCheck(nil)
	require.NotEmpty(t, m.Status().LastError)

	m.performCheck(nil)
	assert.Empty(t, m.Status().LastError)
}

func TestPerformCheck_NotifyFailureDoesNotAffectState(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{{payload: testPayload("Available Today")}}}
	n := &fakeNotifier{err: errors.New("pushover down")}
	m := newTestMonitor(f, n, time.Hour)

	m.performCheck(nil)

	st := m.Status()
	require.NotNil(t, st.LastSnapshot)
	assert.True(t, st.LastSnapshot.Available)
	assert.Empty(t, st.LastError)
}

func TestPerformCheck_TeardownAfterEveryCheck(t *testing.T) {
	t.Parallel()

	f := &scriptedFetcher{script: []fetchResult{{payload: testPayload("Currently unavailable")}}}
	m := newTestMonitor(f, &fakeNotifier{}, time.Hour)

	m.performCheck(nil)
	m.performCheck(nil)
	assert.Equal(t, 2, f.teardownCalls())
}
