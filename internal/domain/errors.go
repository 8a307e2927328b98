package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyCheckedIn is returned when a registrant has an existing
	// check-in record for the event.
	ErrAlreadyCheckedIn = errors.New("already checked in")

	// ErrScanDiscarded is returned by the scan session when a decoded payload
	// is dropped by the throttle, the dedupe window, or the in-flight lock.
	// Discards are silent: callers must not surface them to the operator.
	ErrScanDiscarded = errors.New("scan discarded")

	// ErrRateLimited is returned when a per-user request counter is exhausted.
	ErrRateLimited = errors.New("rate limit exceeded")
)
