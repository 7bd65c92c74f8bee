package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/sessionauth/identity"
	"github.com/MrEthical07/sessionauth/session"
)

// LoginResult is the flow-local login response shape.
type LoginResult struct {
	Principal identity.Principal
	Session   *session.LoginResult
}

// LoginMetrics carries metric IDs needed by the login flow.
type LoginMetrics struct {
	LoginSuccess     int
	LoginFailure     int
	LoginRateLimited int
	LoginDegraded    int
	SessionCreated   int
}

// LoginEvents carries audit event names used by the login flow.
type LoginEvents struct {
	LoginSuccess     string
	LoginFailure     string
	LoginRateLimited string
	LoginDegraded    string
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	EngineNotReady     error
	InvalidCredentials error
	LoginRateLimited   error
	AccountInactive    error
}

// LoginDeps captures login dependencies. Rate functions are optional; they
// return LoginRateLimited when the caller is throttled and nil otherwise.
type LoginDeps struct {
	Now                  func() time.Time
	ClientIPFromContext  func(context.Context) string
	UserAgentFromContext func(context.Context) string

	CheckLoginRate     func(context.Context, string, string) error
	IncrementLoginRate func(context.Context, string, string) error
	ResetLoginRate     func(context.Context, string, string)

	FindByIdentifier func(context.Context, string) (*identity.Record, error)
	VerifyPassword   func(password, encodedHash string) bool
	VerifyDummy      func(password string)
	UpdateLastLogin  func(context.Context, string, time.Time) error
	OpenSession      func(context.Context, session.LoginInput) (*session.LoginResult, error)

	MetricInc func(int)
	EmitAudit func(ctx context.Context, event string, success bool, subject string, err error, meta func() map[string]string)
	Warn      func(string, ...any)

	Metrics LoginMetrics
	Events  LoginEvents
	Errors  LoginErrors
}

// RunLogin verifies credentials for identifier (subject id or alias) and
// opens a session. Unknown identifiers and wrong passwords are
// indistinguishable to the caller.
func RunLogin(ctx context.Context, identifier, password string, deps LoginDeps) (*LoginResult, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.ClientIPFromContext == nil {
		deps.ClientIPFromContext = func(context.Context) string { return "" }
	}
	if deps.UserAgentFromContext == nil {
		deps.UserAgentFromContext = func(context.Context) string { return "" }
	}
	if deps.VerifyDummy == nil {
		deps.VerifyDummy = func(string) {}
	}
	if deps.FindByIdentifier == nil ||
		deps.VerifyPassword == nil ||
		deps.OpenSession == nil {
		return nil, deps.Errors.EngineNotReady
	}

	ip := deps.ClientIPFromContext(ctx)
	identifierMeta := func() map[string]string {
		return map[string]string{"identifier": identifier}
	}

	rateLimited := func(subject string) error {
		deps.MetricInc(deps.Metrics.LoginRateLimited)
		deps.EmitAudit(ctx, deps.Events.LoginRateLimited, false, subject, deps.Errors.LoginRateLimited, identifierMeta)
		return deps.Errors.LoginRateLimited
	}

	fail := func(subject, reason string) error {
		if deps.IncrementLoginRate != nil {
			if err := deps.IncrementLoginRate(ctx, identifier, ip); err != nil {
				return rateLimited(subject)
			}
		}
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, subject, deps.Errors.InvalidCredentials, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     reason,
			}
		})
		return deps.Errors.InvalidCredentials
	}

	if deps.CheckLoginRate != nil {
		if err := deps.CheckLoginRate(ctx, identifier, ip); err != nil {
			return nil, rateLimited("")
		}
	}

	if identifier == "" {
		return nil, fail("", "empty_identifier")
	}

	user, err := deps.FindByIdentifier(ctx, identifier)
	if err != nil {
		deps.VerifyDummy(password)
		if !isNotFound(err) {
			deps.Warn("identity lookup failed during login", "error", err)
		}
		return nil, fail("", "user_not_found")
	}

	if !deps.VerifyPassword(password, user.PasswordHash) {
		return nil, fail(user.Subject, "password_mismatch")
	}
	password = ""

	if !user.Active {
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, user.Subject, deps.Errors.AccountInactive, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "account_inactive",
			}
		})
		return nil, deps.Errors.AccountInactive
	}

	sess, err := deps.OpenSession(ctx, session.LoginInput{
		Subject:     user.Subject,
		DisplayName: user.DisplayName,
		Alias:       user.Alias,
		Role:        user.Role,
		ClientIP:    ip,
		UserAgent:   deps.UserAgentFromContext(ctx),
	})
	if err != nil {
		return nil, err
	}

	if deps.ResetLoginRate != nil {
		deps.ResetLoginRate(ctx, identifier, ip)
	}
	if deps.UpdateLastLogin != nil {
		if err := deps.UpdateLastLogin(ctx, user.Subject, deps.Now()); err != nil {
			deps.Warn("last login update failed", "subject", user.Subject, "error", err)
		}
	}

	if sess.Degraded {
		deps.MetricInc(deps.Metrics.LoginDegraded)
		deps.EmitAudit(ctx, deps.Events.LoginDegraded, true, user.Subject, nil, func() map[string]string {
			return map[string]string{"warning": sess.Warning}
		})
	} else {
		deps.MetricInc(deps.Metrics.SessionCreated)
	}
	deps.MetricInc(deps.Metrics.LoginSuccess)
	deps.EmitAudit(ctx, deps.Events.LoginSuccess, true, user.Subject, nil, func() map[string]string {
		return map[string]string{"ip": ip}
	})

	return &LoginResult{Principal: user.Principal, Session: sess}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, identity.ErrNotFound)
}
