package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/sessionauth/identity"
	"github.com/MrEthical07/sessionauth/jwt"
	"github.com/MrEthical07/sessionauth/session"
	"github.com/MrEthical07/sessionauth/store"
)

// ValidateFailureKind classifies gate rejections for root-level mapping.
type ValidateFailureKind int

const (
	ValidateFailureNone ValidateFailureKind = iota
	ValidateFailureUnauthenticated
	ValidateFailureSessionExpired
	ValidateFailureForbidden
)

// ValidateResult carries either the resolved principal or a classified
// failure. StoreUnavailable marks a SessionExpired caused by a registry
// outage rather than an evicted record.
type ValidateResult struct {
	Failure          ValidateFailureKind
	Err              error
	StoreUnavailable bool
	Claims           *jwt.Claims
	Session          *session.Record
	Principal        *identity.Record
}

// ValidateSessions is the slice of the session manager the gate needs.
type ValidateSessions interface {
	Read(ctx context.Context, token string) (*session.Record, store.Status)
	Delete(ctx context.Context, token string) store.Status
}

// ValidateDeps captures gate dependencies.
type ValidateDeps struct {
	Verify      func(string) (*jwt.Claims, error)
	Sessions    ValidateSessions
	FindSubject func(context.Context, string) (*identity.Record, error)
	Warn        func(string, ...any)
}

var (
	errMissingToken      = errors.New("missing bearer token")
	errNoSession         = errors.New("no live session for token")
	errSubjectNotFound   = errors.New("token subject not found")
	errPrincipalLookup   = errors.New("principal lookup failed")
	errInactivePrincipal = errors.New("account is inactive")
)

// RunValidate runs the fail-closed gate pipeline: token shape, signature and
// expiry, live session, principal lookup, activation.
func RunValidate(ctx context.Context, tokenStr string, deps ValidateDeps) ValidateResult {
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if tokenStr == "" {
		return ValidateResult{Failure: ValidateFailureUnauthenticated, Err: errMissingToken}
	}

	claims, err := deps.Verify(tokenStr)
	if err != nil {
		return ValidateResult{Failure: ValidateFailureUnauthenticated, Err: err}
	}

	rec, st := deps.Sessions.Read(ctx, tokenStr)
	switch st {
	case store.Found:
	case store.Unavailable:
		deps.Warn("session registry unavailable during validation", "subject", claims.Subject)
		return ValidateResult{Failure: ValidateFailureSessionExpired, Err: errNoSession, StoreUnavailable: true, Claims: claims}
	default:
		return ValidateResult{Failure: ValidateFailureSessionExpired, Err: errNoSession, Claims: claims}
	}

	principal, err := deps.FindSubject(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return ValidateResult{Failure: ValidateFailureUnauthenticated, Err: errSubjectNotFound, Claims: claims}
		}
		deps.Warn("principal lookup failed", "subject", claims.Subject, "error", err)
		return ValidateResult{Failure: ValidateFailureUnauthenticated, Err: fmt.Errorf("%w: %v", errPrincipalLookup, err), Claims: claims}
	}

	if !principal.Active {
		deps.Sessions.Delete(ctx, tokenStr)
		return ValidateResult{Failure: ValidateFailureForbidden, Err: errInactivePrincipal, Claims: claims, Principal: principal}
	}

	return ValidateResult{
		Claims:    claims,
		Session:   rec,
		Principal: principal,
	}
}
