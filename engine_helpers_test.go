package sessionauth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/sessionauth/identity"
	"github.com/MrEthical07/sessionauth/permission"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	engine     *Engine
	mr         *miniredis.Miniredis
	rdb        *redis.Client
	identities *identity.MemoryStore
	clock      *fakeClock
}

// advance moves both the engine clock and the registry clock.
func (env *testEnv) advance(d time.Duration) {
	env.clock.Advance(d)
	env.mr.FastForward(d)
}

func (env *testEnv) sessionKey(token string) string {
	return env.engine.config.Session.Prefix + ":" + token
}

func testEngineConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Session.StoreTimeout = 200 * time.Millisecond
	cfg.Password = PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
	return cfg
}

func newTestRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func newTestEnv(t testing.TB, mutate func(*Config), opts ...func(*Builder)) *testEnv {
	t.Helper()

	mr, rdb := newTestRedis(t)
	clock := newFakeClock()
	ids := identity.NewMemoryStore()

	cfg := testEngineConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	b := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithIdentityStore(ids).
		WithClock(clock.Now)
	for _, opt := range opts {
		opt(b)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEnv{
		engine:     engine,
		mr:         mr,
		rdb:        rdb,
		identities: ids,
		clock:      clock,
	}
}

func (env *testEnv) seed(t testing.TB, subject, alias, plain string, role permission.Role) {
	t.Helper()
	hash, err := env.engine.HashPassword(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	err = env.identities.Put(identity.Record{
		Principal: identity.Principal{
			Subject:     subject,
			DisplayName: "Name " + subject,
			Alias:       alias,
			Role:        role,
			Active:      true,
		},
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("seed identity: %v", err)
	}
}

func (env *testEnv) login(t testing.TB, identifier, plain string) *LoginResult {
	t.Helper()
	res, err := env.engine.Login(context.Background(), identifier, plain)
	if err != nil {
		t.Fatalf("login %s: %v", identifier, err)
	}
	if res.SessionDegraded {
		t.Fatalf("unexpected degraded login: %v", res.Warnings)
	}
	return res
}
