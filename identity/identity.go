package identity

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/sessionauth/permission"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("identity not found")

// ErrDuplicate is returned by Seed when the subject or alias is already
// held by a different account.
var ErrDuplicate = errors.New("identity already exists")

// Principal is an authenticated identity as seen by authorization checks.
type Principal struct {
	Subject     string          `json:"user_id"`
	DisplayName string          `json:"name"`
	Alias       string          `json:"email"`
	Role        permission.Role `json:"role"`
	Active      bool            `json:"is_active"`
}

// Record is a principal plus its stored credentials.
type Record struct {
	Principal
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Store resolves accounts. Implementations must be safe for concurrent use.
type Store interface {
	FindBySubject(ctx context.Context, subject string) (*Record, error)
	// FindBySubjectOrAlias matches the primary subject id first, then the
	// alias (email) case-insensitively.
	FindBySubjectOrAlias(ctx context.Context, identifier string) (*Record, error)
	UpdateLastLogin(ctx context.Context, subject string, at time.Time) error
}

// Seeder creates an account if it does not already exist. It reports
// whether a new account was written.
type Seeder interface {
	Seed(ctx context.Context, rec Record) (bool, error)
}

func validateRecord(rec Record) error {
	if rec.Subject == "" {
		return errors.New("identity subject is required")
	}
	if !rec.Role.Valid() {
		return permission.ErrUnknownRole
	}
	if rec.PasswordHash == "" {
		return errors.New("identity password hash is required")
	}
	return nil
}
