package sessionauth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	internalaudit "github.com/MrEthical07/sessionauth/internal/audit"
	"github.com/MrEthical07/sessionauth/internal/flows"
	"github.com/MrEthical07/sessionauth/internal/rate"
	"github.com/MrEthical07/sessionauth/jwt"
	"github.com/MrEthical07/sessionauth/password"
	"github.com/MrEthical07/sessionauth/session"
	"github.com/MrEthical07/sessionauth/store"
)

// Engine ties the token codec, the session registry and the identity store
// together. It is immutable after [Builder.Build] and safe for concurrent
// use.
type Engine struct {
	config     Config
	registry   store.Store
	sessions   *session.Manager
	tokens     *jwt.Manager
	hasher     *password.Hasher
	identities IdentityStore
	limiter    *rate.Limiter
	audit      *internalaudit.Dispatcher
	metrics    *Metrics
	logger     *slog.Logger
	clock      func() time.Time
	flows      flows.Deps
}

// Close drains the audit dispatcher. It does not close the Redis client.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports audit events lost to dispatcher backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// AuditDelivered reports audit events handed to the sink.
func (e *Engine) AuditDelivered() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Delivered()
}

// MetricsSnapshot returns the current counter values.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// SessionTTL is the full sliding window, which is also the token lifetime.
func (e *Engine) SessionTTL() time.Duration {
	if e == nil || e.sessions == nil {
		return 0
	}
	return e.sessions.TTL()
}

// HashPassword returns an argon2id hash suitable for the identity store.
func (e *Engine) HashPassword(plain string) (string, error) {
	if e == nil || e.hasher == nil {
		return "", ErrEngineNotReady
	}
	return e.hasher.Hash(plain)
}

// Ping reports whether the session registry is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	if e == nil || e.registry == nil {
		return ErrEngineNotReady
	}
	if err := e.registry.Ping(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (e *Engine) ready() bool {
	return e != nil && e.sessions != nil && e.tokens != nil && e.identities != nil
}

func (e *Engine) warn(msg string, args ...any) {
	e.logger.Warn(msg, args...)
}

func (e *Engine) buildFlowDeps() flows.Deps {
	return flows.Deps{
		Login:    e.loginFlowDeps(),
		Validate: e.validateFlowDeps(),
		Logout:   e.logoutFlowDeps(),
	}
}
