package avail

import domain "github.com/pickupwatch/pickupwatch/pkg/types"

// DetectChange reports whether the current snapshot differs from the
// previous one. The very first observation is never a change: prev is nil
// only before the first completed check. A message-only change (quote text
// updated while still unavailable) counts as a change; whether it fires a
// notification is the engine's decision, not this function's.
func DetectChange(prev *domain.Snapshot, cur domain.Snapshot) bool {
	if prev == nil {
		return false
	}
	return !prev.Equal(cur)
}
