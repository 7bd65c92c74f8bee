package sessionauth

import (
	"context"
	"strconv"

	"github.com/MrEthical07/sessionauth/internal/flows"
	"github.com/MrEthical07/sessionauth/store"
)

// Logout deletes the session behind token. It is idempotent: an empty
// token, an already ended session and a registry outage all return nil.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if token == "" {
		return nil
	}

	res := flows.RunLogout(ctx, token, e.flows.Logout)
	e.metricInc(MetricLogout)
	if res.Existed {
		e.metricInc(MetricSessionInvalidated)
	}
	if res.StoreUnavailable {
		e.metricInc(MetricStoreUnavailable)
	}

	subject := ""
	if claims, err := e.tokens.Verify(token); err == nil {
		subject = claims.Subject
	}
	e.emitAudit(ctx, auditEventLogoutSession, true, subject, nil, func() map[string]string {
		return map[string]string{"existed": strconv.FormatBool(res.Existed)}
	})
	return nil
}

// RevokeAllSessions deletes every live session of subject and returns how
// many were deleted. Sessions expiring mid-scan are not counted.
func (e *Engine) RevokeAllSessions(ctx context.Context, subject string) (int, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}

	n, res := flows.RunLogoutAll(ctx, subject, e.flows.Logout)
	e.metricInc(MetricLogoutAll)
	for i := 0; i < n; i++ {
		e.metricInc(MetricSessionInvalidated)
	}

	var err error
	if res.StoreUnavailable {
		e.metricInc(MetricStoreUnavailable)
		err = ErrStoreUnavailable
	}
	e.emitAudit(ctx, auditEventLogoutAll, err == nil, subject, err, func() map[string]string {
		return map[string]string{"revoked": strconv.Itoa(n)}
	})
	return n, err
}

// Session returns the record behind token without touching it.
func (e *Engine) Session(ctx context.Context, token string) (*SessionRecord, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	rec, st := e.sessions.Lookup(ctx, token)
	if err := e.statusErr(st); err != nil {
		return nil, err
	}
	return rec, nil
}

// RefreshSession resets the session's TTL to the full window and records
// activity.
func (e *Engine) RefreshSession(ctx context.Context, token string) (*SessionRecord, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	rec, st := e.sessions.Refresh(ctx, token)
	if err := e.statusErr(st); err != nil {
		return nil, err
	}
	e.metricInc(MetricSessionRefreshed)
	e.emitAudit(ctx, auditEventSessionRefreshed, true, rec.Subject, nil, nil)
	return rec, nil
}

// ListSessions returns the live sessions of subject, oldest first, each
// with its remaining TTL.
func (e *Engine) ListSessions(ctx context.Context, subject string) ([]*SessionRecord, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	recs, st := e.sessions.ListForSubject(ctx, subject)
	if st == store.Unavailable {
		e.metricInc(MetricStoreUnavailable)
		return nil, ErrStoreUnavailable
	}
	return recs, nil
}

// ListAllSessions returns every live session, oldest first.
func (e *Engine) ListAllSessions(ctx context.Context) ([]*SessionRecord, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	recs, st := e.sessions.ListAll(ctx)
	if st == store.Unavailable {
		e.metricInc(MetricStoreUnavailable)
		return nil, ErrStoreUnavailable
	}
	return recs, nil
}

// SessionStats summarizes live sessions. An empty registry yields zeros.
func (e *Engine) SessionStats(ctx context.Context) (SessionStats, error) {
	if !e.ready() {
		return SessionStats{}, ErrEngineNotReady
	}
	stats, st := e.sessions.Stats(ctx)
	if st == store.Unavailable {
		e.metricInc(MetricStoreUnavailable)
		return stats, ErrStoreUnavailable
	}
	return stats, nil
}

// CleanupExpiredSessions scans the registry and reports how many keys had
// already expired. The registry's own TTL does the removal; nothing is
// deleted here.
func (e *Engine) CleanupExpiredSessions(ctx context.Context) (int, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}
	n, st := e.sessions.CleanupExpired(ctx)
	if st == store.Unavailable {
		e.metricInc(MetricStoreUnavailable)
		return n, ErrStoreUnavailable
	}
	e.emitAudit(ctx, auditEventSessionCleanupScan, true, "", nil, func() map[string]string {
		return map[string]string{"expired": strconv.Itoa(n)}
	})
	return n, nil
}

func (e *Engine) statusErr(st store.Status) error {
	switch st {
	case store.Found:
		return nil
	case store.Unavailable:
		e.metricInc(MetricStoreUnavailable)
		return ErrStoreUnavailable
	default:
		return ErrSessionNotFound
	}
}

func (e *Engine) logoutFlowDeps() flows.LogoutDeps {
	return flows.LogoutDeps{
		Sessions: e.sessions,
		Warn:     e.warn,
	}
}
