package rate

import "errors"

var (
	// ErrRateLimited is returned once a key has exhausted its window budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps throttle-store transport failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
