//go:build integration
// +build integration

package test

import (
	"context"
	"testing"
	"time"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/identity"
	"github.com/MrEthical07/sessionauth/permission"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type integrationEnv struct {
	engine     *sessionauth.Engine
	identities *identity.MemoryStore
	mr         *miniredis.Miniredis
	rdb        *redis.Client
}

func newIntegrationEngine(t *testing.T) *integrationEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})

	cfg := sessionauth.DefaultConfig()
	cfg.JWT.PrivateKey = []byte("integration-secret-0123456789abcdef")
	cfg.Session.StoreTimeout = 500 * time.Millisecond
	cfg.Password = sessionauth.PasswordConfig{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	ids := identity.NewMemoryStore()
	engine, err := sessionauth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithIdentityStore(ids).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	t.Cleanup(func() {
		engine.Close()
		_ = rdb.Close()
		mr.Close()
	})
	return &integrationEnv{engine: engine, identities: ids, mr: mr, rdb: rdb}
}

func (env *integrationEnv) seed(t *testing.T, subject, plain string, role permission.Role) {
	t.Helper()
	hash, err := env.engine.HashPassword(plain)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if _, err := env.identities.Seed(context.Background(), identity.Record{
		Principal: identity.Principal{
			Subject:     subject,
			DisplayName: subject,
			Alias:       subject + "@example.com",
			Role:        role,
			Active:      true,
		},
		PasswordHash: hash,
	}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
}
