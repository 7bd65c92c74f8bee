package sessionauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/sessionauth/internal/flows"
	"github.com/MrEthical07/sessionauth/internal/rate"
	"github.com/MrEthical07/sessionauth/session"
)

// Login verifies identifier (subject id or alias) and password and opens a
// session. An unknown identifier and a wrong password both return
// ErrInvalidCredentials. A deactivated account returns ErrAccountInactive
// after its password verified.
//
// A registry outage does not fail the login: the token is returned with
// SessionDegraded set. Such a token is rejected by [Engine.Authenticate]
// until the principal logs in again.
func (e *Engine) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	res, err := flows.RunLogin(ctx, identifier, password, e.flows.Login)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) ||
			errors.Is(err, ErrLoginRateLimited) ||
			errors.Is(err, ErrAccountInactive) ||
			errors.Is(err, ErrEngineNotReady) {
			return nil, err
		}
		return nil, fmt.Errorf("open session: %w", err)
	}

	out := &LoginResult{
		Subject:     res.Principal.Subject,
		DisplayName: res.Principal.DisplayName,
		Alias:       res.Principal.Alias,
		Role:        res.Principal.Role,
		AccessToken: res.Session.Token,
		TokenType:   TokenType,
		ExpiresIn:   int64(res.Session.ExpiresIn.Seconds()),
	}
	if res.Session.Degraded {
		out.SessionDegraded = true
		out.Warnings = []string{res.Session.Warning}
	}
	return out, nil
}

func (e *Engine) loginFlowDeps() flows.LoginDeps {
	deps := flows.LoginDeps{
		Now:                  e.now,
		ClientIPFromContext:  clientIPFromContext,
		UserAgentFromContext: userAgentFromContext,
		FindByIdentifier:     e.identities.FindBySubjectOrAlias,
		VerifyPassword:       e.hasher.Verify,
		VerifyDummy:          e.hasher.VerifyDummy,
		UpdateLastLogin:      e.identities.UpdateLastLogin,
		OpenSession: func(ctx context.Context, in session.LoginInput) (*session.LoginResult, error) {
			return e.sessions.Login(ctx, in)
		},
		MetricInc: func(id int) {
			e.metricInc(MetricID(id))
		},
		EmitAudit: e.emitAudit,
		Warn:      e.warn,
		Metrics: flows.LoginMetrics{
			LoginSuccess:     int(MetricLoginSuccess),
			LoginFailure:     int(MetricLoginFailure),
			LoginRateLimited: int(MetricLoginRateLimited),
			LoginDegraded:    int(MetricLoginDegraded),
			SessionCreated:   int(MetricSessionCreated),
		},
		Events: flows.LoginEvents{
			LoginSuccess:     auditEventLoginSuccess,
			LoginFailure:     auditEventLoginFailure,
			LoginRateLimited: auditEventLoginRateLimited,
			LoginDegraded:    auditEventLoginDegraded,
		},
		Errors: flows.LoginErrors{
			EngineNotReady:     ErrEngineNotReady,
			InvalidCredentials: ErrInvalidCredentials,
			LoginRateLimited:   ErrLoginRateLimited,
			AccountInactive:    ErrAccountInactive,
		},
	}

	if e.limiter != nil {
		deps.CheckLoginRate = func(ctx context.Context, identifier, ip string) error {
			return e.throttleResult(e.limiter.CheckLogin(ctx, identifier, ip))
		}
		deps.IncrementLoginRate = func(ctx context.Context, identifier, ip string) error {
			return e.throttleResult(e.limiter.IncrementLogin(ctx, identifier, ip))
		}
		deps.ResetLoginRate = func(ctx context.Context, identifier, ip string) {
			if err := e.limiter.ResetLogin(ctx, identifier, ip); err != nil {
				e.warn("login throttle reset failed", "op", "login", "error", err)
			}
		}
	}

	return deps
}

// throttleResult maps limiter errors. A throttle store outage fails open.
func (e *Engine) throttleResult(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rate.ErrRateLimited):
		return ErrLoginRateLimited
	default:
		e.warn("login throttle unavailable; allowing attempt", "op", "login", "error", err)
		return nil
	}
}
