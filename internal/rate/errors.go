package rate

import "errors"

var (
	// ErrRateLimited signals that the lockout threshold has been reached
	// for a client identifier. Distinct from an ordinary failure so the
	// caller can answer with a rate-limit status instead of unauthorized.
	ErrRateLimited = errors.New("rate limited")
	// ErrThrottleUnavailable indicates the throttle backend is unreachable.
	ErrThrottleUnavailable = errors.New("throttle backend unavailable")
)
