package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	sessionauth "github.com/MrEthical07/sessionauth"
)

const (
	msgUnauthenticated    = "invalid or expired token"
	msgSessionExpired     = "session expired, please log in again"
	msgInvalidCredentials = "invalid credentials"
	msgAccountInactive    = "account is inactive"
	msgForbidden          = "insufficient permissions"
	msgRateLimited        = "too many login attempts"
	msgNotFound           = "session not found"
	msgUnavailable        = "service temporarily unavailable"
	msgInternal           = "internal error"
)

// StatusFor maps an engine error to an HTTP status and client message.
// A store outage during validation surfaces as an expired session, not 503.
func StatusFor(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, sessionauth.ErrSessionExpired):
		return http.StatusUnauthorized, msgSessionExpired
	case errors.Is(err, sessionauth.ErrUnauthenticated):
		return http.StatusUnauthorized, msgUnauthenticated
	case errors.Is(err, sessionauth.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, sessionauth.ErrAccountInactive):
		return http.StatusForbidden, msgAccountInactive
	case errors.Is(err, sessionauth.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, sessionauth.ErrLoginRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	case errors.Is(err, sessionauth.ErrSessionNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, sessionauth.ErrStoreUnavailable),
		errors.Is(err, sessionauth.ErrEngineNotReady):
		return http.StatusServiceUnavailable, msgUnavailable
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// SetChallenge adds the bearer challenge header for 401 responses.
func SetChallenge(h http.Header, status int) {
	if status != http.StatusUnauthorized {
		return
	}
	h.Set("WWW-Authenticate", `Bearer realm="sessionauth"`)
}

// WriteError writes err as a JSON body {"error": msg} with the mapped status.
func WriteError(w http.ResponseWriter, err error) {
	status, msg := StatusFor(err)
	SetChallenge(w.Header(), status)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
