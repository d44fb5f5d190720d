// Package fetch provides the upstream transport for retrieving raw
// pickup-availability payloads, abstracted behind the Fetcher interface
// for testability.
package fetch

import (
	"context"
	"fmt"
)

// Fetcher obtains the raw availability payload for a configured target.
// Teardown discards the current transport identity (HTTP client, cookie
// jar, user agent); the next Fetch builds a fresh one. The engine tears
// the transport down between retries and after every check so that no
// session state is carried across upstream calls.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	Teardown()
}

// Error reports a failed fetch. The Fetcher only records what happened
// (status code, timeout, transport failure); deciding whether the failure
// is retryable is the caller's job.
type Error struct {
	StatusCode int  // non-zero when the upstream answered with a non-2xx status
	Timeout    bool // true when the request deadline expired
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("fetch timed out: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	default:
		return fmt.Sprintf("fetch failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
