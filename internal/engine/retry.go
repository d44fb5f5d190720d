package engine

import (
	"errors"
	"net/http"
	"time"

	"github.com/pickupwatch/pickupwatch/internal/fetch"
)

// ErrorClass is the retry-relevant classification of a fetch failure.
type ErrorClass int

// Fetch failure classes.
const (
	// ClassAntiBot is an upstream rejection with an anti-automation
	// status code. Retryable with a long backoff and a fresh identity.
	ClassAntiBot ErrorClass = iota
	// ClassNetwork is a generic transport failure. Retryable.
	ClassNetwork
	// ClassHTTPStatus is any other non-success upstream status. Terminal.
	ClassHTTPStatus
	// ClassTimeout is a request deadline expiry. Terminal: the next
	// scheduled check retries soon enough.
	ClassTimeout
)

const (
	maxRetries   = 3
	antiBotDelay = 10 * time.Second
	networkDelay = 5 * time.Second
)

// RetryDecision is the outcome of the retry policy for one failed attempt.
type RetryDecision struct {
	ShouldRetry bool
	Delay       time.Duration
	Attempt     int
}

// Classify maps a fetch failure to its retry class. The Fetcher only
// reports what it observed; policy lives here.
func Classify(err error) ErrorClass {
	var fe *fetch.Error
	if !errors.As(err, &fe) {
		return ClassNetwork
	}

	switch {
	case fe.Timeout:
		return ClassTimeout
	case fe.StatusCode == http.StatusForbidden || fe.StatusCode == http.StatusTooManyRequests:
		return ClassAntiBot
	case fe.StatusCode != 0:
		return ClassHTTPStatus
	default:
		return ClassNetwork
	}
}

// Decide is the pure retry policy: given the class of the failure and
// the 0-based attempt number that just failed, it returns whether to
// retry and after how long. Backoff grows linearly with the attempt.
func Decide(class ErrorClass, attempt int) RetryDecision {
	d := RetryDecision{Attempt: attempt}

	if attempt >= maxRetries {
		return d
	}

	switch class {
	case ClassAntiBot:
		d.ShouldRetry = true
		d.Delay = time.Duration(attempt+1) * antiBotDelay
	case ClassNetwork:
		d.ShouldRetry = true
		d.Delay = time.Duration(attempt+1) * networkDelay
	case ClassHTTPStatus, ClassTimeout:
		// Terminal immediately.
	}

	return d
}
