// Package domain defines the core value types for pickupwatch.
package domain

import "time"

// Sentinel messages used when the upstream response carries no usable
// availability data. Absence of data is a valid observation, not an error.
const (
	MessageNoData       = "no data available"
	MessageNoStoreData  = "no store data"
	MessagePartNotFound = "part not found"
)

// Snapshot is a single point-in-time observation of pickup availability.
// It is an immutable value: the engine replaces its last snapshot wholesale,
// never mutates one in place.
type Snapshot struct {
	Available  bool      `json:"available"`
	Message    string    `json:"message"`
	StoreLabel string    `json:"store_label,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// Equal reports whether two snapshots describe the same observed state.
// Timestamps and store labels are ignored: availability and message text
// are the source of truth for change detection.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Available == o.Available && s.Message == o.Message
}

// Priority is the delivery priority of a notification.
type Priority string

// Notification priorities.
const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// MonitorStatus is the read-only projection of the engine's state returned
// by status queries. LastSnapshot is nil until the first check completes.
type MonitorStatus struct {
	Running       bool          `json:"running"`
	Interval      time.Duration `json:"-"`
	IntervalMs    int64         `json:"interval_ms"`
	CheckCount    uint64        `json:"check_count"`
	LastSnapshot  *Snapshot     `json:"last_known_status"`
	LastCheckedAt *time.Time    `json:"last_checked_at,omitempty"`
	LastError     string        `json:"last_error,omitempty"`
	TargetPart    string        `json:"target_part"`
	TargetStore   string        `json:"target_store"`
}
