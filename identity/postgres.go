package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/sessionauth/permission"
	"github.com/lib/pq"
)

const usersMigration = `
CREATE TABLE IF NOT EXISTS users (
    id serial PRIMARY KEY,
    user_id varchar(100) NOT NULL UNIQUE,
    email varchar(255) NULL UNIQUE,
    name varchar(100) NOT NULL,
    password_hash varchar(255) NOT NULL,
    role varchar(20) NOT NULL DEFAULT 'user',
    is_active boolean NOT NULL DEFAULT true,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    last_login timestamptz NULL,
    CONSTRAINT valid_role CHECK (role IN ('user', 'admin', 'super_admin'))
);

ALTER TABLE users ALTER COLUMN email DROP NOT NULL;

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));
`

const selectUser = `
	SELECT user_id, email, name, password_hash, role, is_active, last_login
	FROM users
`

// PostgresStore reads accounts from the users table through lib/pq.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the users table when missing.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, usersMigration)
	return err
}

// Ping checks database reachability.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresStore) FindBySubject(ctx context.Context, subject string) (*Record, error) {
	row := p.db.QueryRowContext(ctx, selectUser+`WHERE user_id = $1`, subject)
	return scanRecord(row)
}

func (p *PostgresStore) FindBySubjectOrAlias(ctx context.Context, identifier string) (*Record, error) {
	if identifier == "" {
		return nil, ErrNotFound
	}
	// Subject matches win over alias matches.
	row := p.db.QueryRowContext(ctx, selectUser+`
		WHERE user_id = $1::text OR LOWER(email) = LOWER($1::text)
		ORDER BY (user_id = $1::text) DESC
		LIMIT 1
	`, identifier)
	return scanRecord(row)
}

func (p *PostgresStore) UpdateLastLogin(ctx context.Context, subject string, at time.Time) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE users SET last_login = $2, updated_at = NOW()
		WHERE user_id = $1
	`, subject, at.UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed inserts rec unless an account with the same subject exists.
// An empty alias is stored as NULL so alias-less accounts never collide.
func (p *PostgresStore) Seed(ctx context.Context, rec Record) (bool, error) {
	if err := validateRecord(rec); err != nil {
		return false, err
	}
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO users (user_id, email, name, password_hash, role, is_active)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING
	`, rec.Subject, rec.Alias, rec.DisplayName, rec.PasswordHash, rec.Role.String(), rec.Active)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return false, fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec       Record
		role      string
		alias     sql.NullString
		lastLogin pq.NullTime
	)
	err := row.Scan(&rec.Subject, &alias, &rec.DisplayName, &rec.PasswordHash, &role, &rec.Active, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.Alias = alias.String
	rec.Role, err = permission.ParseRole(role)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		rec.LastLogin = &t
	}
	return &rec, nil
}
