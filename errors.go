package sessionauth

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown identifier or a wrong
	// password. The two cases are indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when no token is presented, the token
	// fails verification, or its subject no longer exists.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrSessionExpired is returned for a valid token with no live session.
	ErrSessionExpired = errors.New("session expired or invalid")
	// ErrForbidden is returned when an authenticated principal lacks access.
	ErrForbidden = errors.New("forbidden")
	// ErrAccountInactive is returned when the principal is deactivated.
	ErrAccountInactive = newForbidden("account is inactive")
	// ErrStoreUnavailable marks failures caused by a session registry outage.
	ErrStoreUnavailable = errors.New("session registry unavailable")
	// ErrLoginRateLimited is returned once failed logins exhaust the window.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrEngineNotReady is returned when the engine is nil or half built.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrSessionNotFound is returned by session lookups that found nothing.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInsufficientRole is returned by role gates. It wraps ErrForbidden.
	ErrInsufficientRole = newForbidden("insufficient role")
)

type forbiddenError struct {
	msg string
}

func newForbidden(msg string) error {
	return &forbiddenError{msg: msg}
}

func (e *forbiddenError) Error() string { return e.msg }

func (e *forbiddenError) Unwrap() error { return ErrForbidden }
