package sessionauth

import (
	"fmt"

	"github.com/MrEthical07/sessionauth/identity"
	"github.com/MrEthical07/sessionauth/permission"
	"github.com/MrEthical07/sessionauth/session"
)

// IdentityStore resolves principals for login and token validation.
type IdentityStore = identity.Store

// SessionRecord is the server-side record behind a live bearer token.
type SessionRecord = session.Record

// SessionStats summarizes every live session.
type SessionStats = session.Stats

// TokenType is the scheme reported to clients with every access token.
const TokenType = "bearer"

// LoginResult is returned by [Engine.Login]. When SessionDegraded is set the
// token is signed but no session record backs it; Warnings says why.
type LoginResult struct {
	Subject         string          `json:"user_id"`
	DisplayName     string          `json:"user_name"`
	Alias           string          `json:"email,omitempty"`
	Role            permission.Role `json:"role"`
	AccessToken     string          `json:"access_token"`
	TokenType       string          `json:"token_type"`
	ExpiresIn       int64           `json:"expires_in"`
	SessionDegraded bool            `json:"session_degraded,omitempty"`
	Warnings        []string        `json:"warnings,omitempty"`
}

// AuthResult is the authenticated principal produced by
// [Engine.Authenticate]. Role comes from the identity store, not the token.
type AuthResult struct {
	Subject     string
	DisplayName string
	Alias       string
	Role        permission.Role
	Token       string
	Session     *SessionRecord
}

// Require returns ErrInsufficientRole unless the principal holds at least
// min.
func (a *AuthResult) Require(min permission.Role) error {
	if a == nil {
		return ErrUnauthenticated
	}
	if !a.Role.AtLeast(min) {
		return fmt.Errorf("%w: %s required", ErrInsufficientRole, min)
	}
	return nil
}

// CanManage reports whether the principal may administer a principal
// holding target.
func (a *AuthResult) CanManage(target permission.Role) bool {
	return a != nil && a.Role.CanManage(target)
}
