package sessionauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/sessionauth/permission"
)

func collectEvents(t *testing.T, sink *ChannelSink, n int) []AuditEvent {
	t.Helper()
	out := make([]AuditEvent, 0, n)
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case ev := <-sink.Events():
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("expected %d audit events, got %d: %+v", n, len(out), out)
		}
	}
	return out
}

func TestAuditEventsForLoginAndLogout(t *testing.T) {
	sink := NewChannelSink(16)
	env := newTestEnv(t, func(c *Config) {
		c.Audit = AuditConfig{Enabled: true, BufferSize: 16}
	}, func(b *Builder) { b.WithAuditSink(sink) })
	env.seed(t, "alice", "", "correct", permission.User)

	ctx := WithClientIP(context.Background(), "198.51.100.2")
	if _, err := env.engine.Login(ctx, "alice", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	res, err := env.engine.Login(ctx, "alice", "correct")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := env.engine.Logout(ctx, res.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	env.engine.Close()

	events := collectEvents(t, sink, 3)
	failure, success, logout := events[0], events[1], events[2]
	if got := env.engine.AuditDelivered(); got != 3 {
		t.Fatalf("expected 3 delivered events, got %d", got)
	}

	if failure.EventType != auditEventLoginFailure || failure.Success || failure.Error != string(auditErrInvalidCredentials) {
		t.Fatalf("unexpected failure event %+v", failure)
	}
	if failure.Metadata["reason"] != "password_mismatch" {
		t.Fatalf("expected password_mismatch reason, got %q", failure.Metadata["reason"])
	}
	if success.EventType != auditEventLoginSuccess || !success.Success || success.Subject != "alice" {
		t.Fatalf("unexpected success event %+v", success)
	}
	if success.IP != "198.51.100.2" {
		t.Fatalf("expected client ip on event, got %q", success.IP)
	}
	if logout.EventType != auditEventLogoutSession || logout.Subject != "alice" || logout.Metadata["existed"] != "true" {
		t.Fatalf("unexpected logout event %+v", logout)
	}
	for _, ev := range events {
		if ev.ID == "" || ev.Timestamp.IsZero() {
			t.Fatalf("event missing id or timestamp: %+v", ev)
		}
	}
}

func TestAuditInactiveAndRevokeAll(t *testing.T) {
	sink := NewChannelSink(16)
	env := newTestEnv(t, func(c *Config) {
		c.Audit = AuditConfig{Enabled: true, BufferSize: 16}
	}, func(b *Builder) { b.WithAuditSink(sink) })
	env.seed(t, "alice", "", "correct", permission.User)
	ctx := context.Background()

	env.login(t, "alice", "correct")
	env.login(t, "alice", "correct")
	if _, err := env.engine.RevokeAllSessions(ctx, "alice"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	res := env.login(t, "alice", "correct")
	_ = env.identities.SetActive("alice", false)
	if _, err := env.engine.Authenticate(ctx, res.AccessToken); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("expected inactive, got %v", err)
	}
	env.engine.Close()

	events := collectEvents(t, sink, 5)
	revoke := events[2]
	if revoke.EventType != auditEventLogoutAll || revoke.Metadata["revoked"] != "2" {
		t.Fatalf("unexpected revoke event %+v", revoke)
	}
	inactive := events[4]
	if inactive.EventType != auditEventInactiveRejected || inactive.Error != string(auditErrAccountInactive) {
		t.Fatalf("unexpected inactive event %+v", inactive)
	}
}

func TestAuditDropIfFullCounts(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	defer close(sink.gate)
	env := newTestEnv(t, func(c *Config) {
		c.Audit = AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}
	}, func(b *Builder) { b.WithAuditSink(sink) })
	env.seed(t, "alice", "", "correct", permission.User)

	for i := 0; i < 5; i++ {
		_, _ = env.engine.Login(context.Background(), "alice", "wrong")
	}
	if env.engine.AuditDropped() == 0 {
		t.Fatal("expected dropped events with a blocked sink")
	}
}

type gateSink struct {
	gate chan struct{}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func TestAuditErrorCodeMapping(t *testing.T) {
	cases := map[error]AuditErrorCode{
		nil:                   "",
		ErrInvalidCredentials: auditErrInvalidCredentials,
		ErrLoginRateLimited:   auditErrRateLimited,
		ErrAccountInactive:    auditErrAccountInactive,
		ErrInsufficientRole:   auditErrForbidden,
		ErrSessionExpired:     auditErrSessionExpired,
		ErrEngineNotReady:     auditErrNotReady,
		errors.New("boom"):    auditErrInternal,
	}
	for err, want := range cases {
		if got := auditErrorCode(err); got != want {
			t.Fatalf("auditErrorCode(%v) = %q, want %q", err, got, want)
		}
	}
	joined := errors.Join(ErrSessionExpired, ErrStoreUnavailable)
	if got := auditErrorCode(joined); got != auditErrUnavailable {
		t.Fatalf("outage must map to unavailable, got %q", got)
	}
}
