package test

import (
	"context"
	"errors"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/identity"
	"github.com/redis/go-redis/v9"
)

// ExampleNew demonstrates engine construction with production-style dependencies.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})

	cfg := sessionauth.DefaultConfig()
	cfg.JWT.PrivateKey = []byte("replace-with-32-or-more-random-bytes")

	engine, err := sessionauth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithIdentityStore(identity.NewMemoryStore()).
		Build()
	if err != nil {
		return
	}
	defer engine.Close()
}

// ExampleEngine_Authenticate shows how to tell a bad token from an ended
// session.
func ExampleEngine_Authenticate() {
	var engine *sessionauth.Engine
	_, err := engine.Authenticate(context.Background(), "token")
	switch {
	case errors.Is(err, sessionauth.ErrSessionExpired):
		// ask the user to log in again
	case errors.Is(err, sessionauth.ErrUnauthenticated):
		// reject the credentials outright
	case errors.Is(err, sessionauth.ErrForbidden):
		// authenticated but not allowed
	}
}

// ExampleEngine_MetricsSnapshot shows how to read in-process metrics counters.
func ExampleEngine_MetricsSnapshot() {
	var engine *sessionauth.Engine
	snapshot := engine.MetricsSnapshot()
	_ = snapshot.Counters[sessionauth.MetricLoginSuccess]
}
