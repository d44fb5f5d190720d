// Package avail parses raw pickup-message payloads into availability
// snapshots and detects state changes between consecutive snapshots.
// Everything here is pure: no I/O, no clocks.
package avail

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/pickupwatch/pickupwatch/pkg/types"
)

// ErrMalformedPayload is returned when the payload is not valid JSON or
// lacks the top-level pickup-message structure. Missing store or part
// data is not malformed: it parses to a sentinel snapshot instead.
var ErrMalformedPayload = errors.New("malformed pickup payload")

// availablePhrase is the sole availability signal. A quote containing it
// (any case) means the part can be picked up today; anything else means
// it cannot. No other heuristic is applied.
const availablePhrase = "available today"

type pickupPayload struct {
	Body *pickupBody `json:"body"`
}

type pickupBody struct {
	Stores []storeEntry `json:"stores"`
}

type storeEntry struct {
	StoreNumber       string                `json:"storeNumber"`
	StoreName         string                `json:"storeName"`
	PartsAvailability map[string]partStatus `json:"partsAvailability"`
}

type partStatus struct {
	PickupDisplay     string `json:"pickupDisplay"`
	PickupSearchQuote string `json:"pickupSearchQuote"`
}

// Parse converts a raw pickup-message payload into a Snapshot for the
// given part. The fetch is store-scoped, so the first store entry is the
// target store. Absent store or part data yields a well-defined
// unavailable snapshot rather than an error.
func Parse(raw []byte, part string, observedAt time.Time) (domain.Snapshot, error) {
	var payload pickupPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if payload.Body == nil {
		return domain.Snapshot{}, fmt.Errorf("%w: missing body", ErrMalformedPayload)
	}

	if len(payload.Body.Stores) == 0 {
		return domain.Snapshot{
			Available:  false,
			Message:    domain.MessageNoStoreData,
			ObservedAt: observedAt,
		}, nil
	}

	store := payload.Body.Stores[0]

	status, ok := store.PartsAvailability[part]
	if !ok {
		return domain.Snapshot{
			Available:  false,
			Message:    domain.MessagePartNotFound,
			StoreLabel: store.StoreName,
			ObservedAt: observedAt,
		}, nil
	}

	message := status.PickupSearchQuote
	if message == "" {
		message = domain.MessageNoData
	}

	return domain.Snapshot{
		Available:  strings.Contains(strings.ToLower(message), availablePhrase),
		Message:    message,
		StoreLabel: store.StoreName,
		ObservedAt: observedAt,
	}, nil
}
