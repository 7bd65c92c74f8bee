package flows

import (
	"context"

	"github.com/MrEthical07/sessionauth/store"
)

// LogoutSessions is the slice of the session manager logout needs.
type LogoutSessions interface {
	Delete(ctx context.Context, token string) store.Status
	RevokeAllForSubject(ctx context.Context, subject string) (int, store.Status)
}

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	Sessions LogoutSessions
	Warn     func(string, ...any)
}

// LogoutResult reports what a logout actually removed.
type LogoutResult struct {
	Existed          bool
	StoreUnavailable bool
}

// RunLogout deletes the record behind token. An empty token is a no-op.
func RunLogout(ctx context.Context, tokenStr string, deps LogoutDeps) LogoutResult {
	if tokenStr == "" {
		return LogoutResult{}
	}
	st := deps.Sessions.Delete(ctx, tokenStr)
	if st == store.Unavailable && deps.Warn != nil {
		deps.Warn("logout could not reach session registry")
	}
	return LogoutResult{Existed: st == store.Found, StoreUnavailable: st == store.Unavailable}
}

// RunLogoutAll revokes every session of subject and returns the count.
func RunLogoutAll(ctx context.Context, subject string, deps LogoutDeps) (int, LogoutResult) {
	if subject == "" {
		return 0, LogoutResult{}
	}
	n, st := deps.Sessions.RevokeAllForSubject(ctx, subject)
	if st == store.Unavailable && deps.Warn != nil {
		deps.Warn("revoke-all could not reach session registry", "subject", subject, "revoked", n)
	}
	return n, LogoutResult{Existed: n > 0, StoreUnavailable: st == store.Unavailable}
}
