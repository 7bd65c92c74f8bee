package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/MrEthical07/sessionauth/permission"
	"github.com/MrEthical07/sessionauth/store"
)

const (
	// DefaultPrefix namespaces session keys in the registry.
	DefaultPrefix = "session"
	// DefaultTTL is the full sliding window.
	DefaultTTL = time.Hour
	// DefaultRefreshThreshold is the remaining lifetime under which a read
	// extends the record.
	DefaultRefreshThreshold = 15 * time.Minute
)

// DegradedWarning is reported on a login whose record could not be stored.
const DegradedWarning = "session registry unavailable: token issued without a session record"

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(subject, role string, ttl time.Duration) (string, error)
}

// Config controls key layout and the sliding window.
type Config struct {
	Prefix           string
	TTL              time.Duration
	// RefreshThreshold zero selects DefaultRefreshThreshold.
	RefreshThreshold time.Duration
	Now              func() time.Time
	Logger           *slog.Logger
}

// Manager implements the session lifecycle on top of a [store.Store].
// It holds no mutable state and is safe for concurrent use.
type Manager struct {
	store  store.Store
	tokens TokenIssuer
	cfg    Config
	logger *slog.Logger
}

// NewManager validates cfg and fills defaults.
func NewManager(st store.Store, tokens TokenIssuer, cfg Config) (*Manager, error) {
	if st == nil {
		return nil, errors.New("session store is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if strings.ContainsAny(cfg.Prefix, "*?[]") {
		return nil, errors.New("session prefix must not contain glob characters")
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.RefreshThreshold == 0 {
		cfg.RefreshThreshold = DefaultRefreshThreshold
	}
	if cfg.TTL < time.Second {
		return nil, errors.New("session TTL must be at least one second")
	}
	if cfg.RefreshThreshold < 0 || cfg.RefreshThreshold >= cfg.TTL {
		return nil, errors.New("refresh threshold must be in [0, TTL)")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{store: st, tokens: tokens, cfg: cfg, logger: logger}, nil
}

// TTL returns the full sliding window.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

func (m *Manager) key(token string) string {
	return m.cfg.Prefix + ":" + token
}

func (m *Manager) scanPrefix() string {
	return m.cfg.Prefix + ":"
}

func (m *Manager) tokenFromKey(key string) string {
	return strings.TrimPrefix(key, m.scanPrefix())
}

// LoginInput describes the principal a session is opened for.
type LoginInput struct {
	Subject     string
	DisplayName string
	Alias       string
	Role        permission.Role
	ClientIP    string
	UserAgent   string
}

// LoginResult is the issued token and the record stored for it. When
// Degraded is set the record was not stored and Warning says why.
type LoginResult struct {
	Token     string
	ExpiresIn time.Duration
	Record    *Record
	Degraded  bool
	Warning   string
}

// Login issues a token and stores a record under it with the same TTL. A
// registry failure does not fail the login; the result is marked Degraded.
// Only token issuance errors are returned.
func (m *Manager) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Subject == "" {
		return nil, errors.New("login subject is required")
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("login role: %w", permission.ErrUnknownRole)
	}

	token, err := m.tokens.Issue(in.Subject, in.Role.String(), m.cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	now := m.cfg.Now().UTC()
	rec := &Record{
		Token:        token,
		Subject:      in.Subject,
		DisplayName:  in.DisplayName,
		Alias:        in.Alias,
		Role:         in.Role,
		ClientIP:     in.ClientIP,
		UserAgent:    in.UserAgent,
		CreatedAt:    now,
		LastActivity: now,
		TTL:          m.cfg.TTL,
	}
	res := &LoginResult{Token: token, ExpiresIn: m.cfg.TTL, Record: rec}

	data, err := Encode(rec)
	if err != nil {
		return nil, err
	}
	if st := m.store.Put(ctx, m.key(token), data, m.cfg.TTL); st != store.Found {
		m.logger.Warn("session record not stored; login degraded",
			"op", "login", "subject", in.Subject, "status", st.String())
		res.Degraded = true
		res.Warning = DegradedWarning
		return res, nil
	}

	m.logger.Info("session created", "op", "login", "subject", in.Subject, "role", in.Role.String())
	return res, nil
}

// Read returns the live record for token, touching last_activity and
// applying the lazy sliding refresh.
func (m *Manager) Read(ctx context.Context, token string) (*Record, store.Status) {
	return m.touch(ctx, token, m.cfg.RefreshThreshold)
}

// Refresh resets the record behind token to the full TTL window and
// updates last_activity. It never recreates an ended session.
func (m *Manager) Refresh(ctx context.Context, token string) (*Record, store.Status) {
	return m.touch(ctx, token, m.cfg.TTL)
}

// touch extends the record back to the full window when its remaining TTL
// is below threshold.
func (m *Manager) touch(ctx context.Context, token string, threshold time.Duration) (*Record, store.Status) {
	if token == "" {
		return nil, store.Absent
	}
	key := m.key(token)

	rec, st := m.load(ctx, key)
	if st != store.Found {
		return nil, st
	}

	rec.LastActivity = m.cfg.Now().UTC()
	if data, err := Encode(rec); err == nil {
		if rst := m.store.Replace(ctx, key, data); rst == store.Absent {
			// Expired or deleted between the read and the write.
			return nil, store.Absent
		} else if rst == store.Unavailable {
			m.logger.Warn("last_activity update failed", "op", "read", "subject", rec.Subject)
		}
	}

	remaining, tst := m.store.TTL(ctx, key)
	switch tst {
	case store.Absent:
		return nil, store.Absent
	case store.Unavailable:
		return rec, store.Found
	}
	rec.TTL = remaining

	if remaining > 0 && remaining < threshold {
		extra := m.cfg.TTL - remaining
		switch m.store.Extend(ctx, key, extra) {
		case store.Found:
			rec.TTL = m.cfg.TTL
			rec.Refreshed = true
			m.logger.Info("session refreshed", "op", "refresh", "subject", rec.Subject,
				"remaining", remaining.Round(time.Second).String())
		case store.Absent:
			return nil, store.Absent
		default:
			m.logger.Warn("session refresh failed", "op", "refresh", "subject", rec.Subject)
		}
	}

	return rec, store.Found
}

// Lookup returns the record for token without touching it.
func (m *Manager) Lookup(ctx context.Context, token string) (*Record, store.Status) {
	if token == "" {
		return nil, store.Absent
	}
	key := m.key(token)
	rec, st := m.load(ctx, key)
	if st != store.Found {
		return nil, st
	}
	if ttl, tst := m.store.TTL(ctx, key); tst == store.Found {
		rec.TTL = ttl
	}
	return rec, store.Found
}

// Delete removes the record for token and reports whether it existed.
func (m *Manager) Delete(ctx context.Context, token string) store.Status {
	if token == "" {
		return store.Absent
	}
	st := m.store.Delete(ctx, m.key(token))
	if st == store.Unavailable {
		m.logger.Warn("session delete failed", "op", "delete", "status", st.String())
	}
	return st
}

// ListForSubject returns every live record belonging to subject, oldest
// first, each with its current TTL.
func (m *Manager) ListForSubject(ctx context.Context, subject string) ([]*Record, store.Status) {
	return m.list(ctx, func(r *Record) bool { return r.Subject == subject })
}

// ListAll returns every live record, oldest first.
func (m *Manager) ListAll(ctx context.Context) ([]*Record, store.Status) {
	return m.list(ctx, nil)
}

// RevokeAllForSubject deletes every live record of subject and returns how
// many deletions actually removed a record. Records that expire mid-scan
// are skipped without error.
func (m *Manager) RevokeAllForSubject(ctx context.Context, subject string) (int, store.Status) {
	records, st := m.ListForSubject(ctx, subject)
	if st != store.Found {
		return 0, st
	}

	deleted := 0
	status := store.Found
	for _, rec := range records {
		switch m.store.Delete(ctx, m.key(rec.Token)) {
		case store.Found:
			deleted++
		case store.Unavailable:
			status = store.Unavailable
		}
	}

	m.logger.Info("sessions revoked", "op", "revoke_all", "subject", subject, "count", deleted)
	return deleted, status
}

// Stats computes the registry summary by full enumeration.
func (m *Manager) Stats(ctx context.Context) (Stats, store.Status) {
	out := Stats{ByRole: map[string]int{}}

	records, st := m.ListAll(ctx)
	if st != store.Found {
		return out, st
	}
	if len(records) == 0 {
		return out, store.Found
	}

	var ttlSum int64
	for _, rec := range records {
		out.ByRole[rec.Role.String()]++
		if rec.TTL > 0 {
			ttlSum += int64(rec.TTL / time.Second)
		}
	}
	out.Total = len(records)
	out.AverageTTLSeconds = ttlSum / int64(len(records))
	return out, store.Found
}

// CleanupExpired counts enumerated keys that have already expired by the
// time their TTL is checked. Expiry itself belongs to the registry, so
// nothing is deleted here.
func (m *Manager) CleanupExpired(ctx context.Context) (int, store.Status) {
	keys, st := m.store.Keys(ctx, m.scanPrefix())
	if st != store.Found {
		return 0, st
	}

	expired := 0
	for _, key := range keys {
		ttl, tst := m.store.TTL(ctx, key)
		if tst == store.Unavailable {
			return expired, store.Unavailable
		}
		if ttl == store.Missing {
			expired++
		}
	}
	return expired, store.Found
}

func (m *Manager) load(ctx context.Context, key string) (*Record, store.Status) {
	data, st := m.store.Get(ctx, key)
	if st != store.Found {
		if st == store.Unavailable {
			m.logger.Warn("session registry unavailable", "op", "get")
		}
		return nil, st
	}
	rec, err := Decode(data)
	if err != nil {
		m.logger.Warn("dropping unreadable session record", "op", "get", "error", err)
		m.store.Delete(ctx, key)
		return nil, store.Absent
	}
	rec.Token = m.tokenFromKey(key)
	return rec, store.Found
}

func (m *Manager) list(ctx context.Context, keep func(*Record) bool) ([]*Record, store.Status) {
	keys, st := m.store.Keys(ctx, m.scanPrefix())
	if st != store.Found {
		return nil, st
	}

	out := make([]*Record, 0, len(keys))
	for _, key := range keys {
		rec, rst := m.load(ctx, key)
		if rst == store.Unavailable {
			return nil, store.Unavailable
		}
		if rst != store.Found {
			continue
		}
		if keep != nil && !keep(rec) {
			continue
		}
		ttl, tst := m.store.TTL(ctx, key)
		if tst == store.Absent {
			continue
		}
		rec.TTL = ttl
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Token < out[j].Token
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, store.Found
}
