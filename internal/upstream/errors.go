// Package upstream implements the client for the dealer management API:
// session authentication, changed-work-order queries, labor time entries,
// and the customer list / batch retrieve pair used by on-demand fetches.
package upstream

import "fmt"

// AuthenticationError indicates the credential exchange was rejected or
// the auth response was malformed. Fatal for a sync run.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream: authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("upstream: authentication failed: %s", e.Reason)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// UpstreamError indicates a data endpoint returned a non-2xx status.
// Callers degrade to an empty result set rather than aborting the run.
type UpstreamError struct {
	Endpoint string
	Status   int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream: %s returned status %d", e.Endpoint, e.Status)
}
