package sessionauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/sessionauth/internal/flows"
)

// Authenticate runs the gate pipeline for a presented bearer token:
// signature and expiry, live session, principal lookup, activation.
//
// Rejections:
//   - ErrUnauthenticated: missing, malformed, badly signed or expired
//     token, or a subject unknown to the identity store.
//   - ErrSessionExpired: a valid token without a live session. When the
//     registry was unreachable the error also matches ErrStoreUnavailable.
//   - ErrAccountInactive (matches ErrForbidden): the principal is
//     deactivated. The session is deleted as a side effect, so the next
//     call with the same token returns ErrSessionExpired.
//
// A successful call refreshes the session's last activity and, within the
// refresh threshold, its TTL.
func (e *Engine) Authenticate(ctx context.Context, token string) (*AuthResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	var start time.Time
	if e.metrics.LatencyEnabled() {
		start = time.Now()
	}

	res := flows.RunValidate(ctx, token, e.flows.Validate)

	if !start.IsZero() {
		e.metrics.Observe(MetricValidateLatency, time.Since(start))
	}

	switch res.Failure {
	case flows.ValidateFailureNone:
	case flows.ValidateFailureSessionExpired:
		e.metricInc(MetricValidateSessionExpired)
		if res.StoreUnavailable {
			e.metricInc(MetricStoreUnavailable)
			return nil, errors.Join(ErrSessionExpired, ErrStoreUnavailable)
		}
		return nil, ErrSessionExpired
	case flows.ValidateFailureForbidden:
		e.metricInc(MetricValidateForbidden)
		e.metricInc(MetricSessionInvalidated)
		subject := ""
		if res.Claims != nil {
			subject = res.Claims.Subject
		}
		e.logger.Info("session revoked for inactive principal", "op", "authenticate", "subject", subject)
		e.emitAudit(ctx, auditEventInactiveRejected, false, subject, ErrAccountInactive, nil)
		return nil, ErrAccountInactive
	default:
		e.metricInc(MetricValidateUnauthenticated)
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, res.Err)
	}

	e.metricInc(MetricValidateSuccess)
	p := res.Principal
	return &AuthResult{
		Subject:     p.Subject,
		DisplayName: p.DisplayName,
		Alias:       p.Alias,
		Role:        p.Role,
		Token:       token,
		Session:     res.Session,
	}, nil
}

func (e *Engine) validateFlowDeps() flows.ValidateDeps {
	return flows.ValidateDeps{
		Verify:      e.tokens.Verify,
		Sessions:    e.sessions,
		FindSubject: e.identities.FindBySubject,
		Warn:        e.warn,
	}
}
