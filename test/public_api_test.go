package test

import (
	"context"
	"net/http"
	"testing"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/middleware"
	"github.com/MrEthical07/sessionauth/permission"
)

// Guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = sessionauth.New

	var _ *sessionauth.Engine
	var _ sessionauth.Config
	var _ sessionauth.AuthResult
	var _ sessionauth.LoginResult
	var _ sessionauth.SessionRecord
	var _ sessionauth.SessionStats
	var _ sessionauth.IdentityStore
	var _ sessionauth.AuditSink

	var _ error = sessionauth.ErrInvalidCredentials
	var _ error = sessionauth.ErrUnauthenticated
	var _ error = sessionauth.ErrSessionExpired
	var _ error = sessionauth.ErrForbidden
	var _ error = sessionauth.ErrAccountInactive
	var _ error = sessionauth.ErrStoreUnavailable
	var _ error = sessionauth.ErrSessionNotFound

	var _ middleware.Authenticator = (*sessionauth.Engine)(nil)
	var _ func(middleware.Authenticator) func(http.Handler) http.Handler = middleware.Guard
	var _ func(permission.Role) func(http.Handler) http.Handler = middleware.RequireRole

	var _ func(*sessionauth.Engine, context.Context, string, string) (*sessionauth.LoginResult, error) = (*sessionauth.Engine).Login
	var _ func(*sessionauth.Engine, context.Context, string) (*sessionauth.AuthResult, error) = (*sessionauth.Engine).Authenticate
	var _ func(*sessionauth.Engine, context.Context, string) error = (*sessionauth.Engine).Logout
	var _ func(*sessionauth.Engine, context.Context, string) (int, error) = (*sessionauth.Engine).RevokeAllSessions
	var _ func(*sessionauth.Engine, context.Context, string) ([]*sessionauth.SessionRecord, error) = (*sessionauth.Engine).ListSessions
	var _ func(*sessionauth.Engine, context.Context) (sessionauth.SessionStats, error) = (*sessionauth.Engine).SessionStats
}
