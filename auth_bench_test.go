package sessionauth

import (
	"context"
	"testing"

	"github.com/MrEthical07/sessionauth/permission"
)

func BenchmarkAuthenticate(b *testing.B) {
	env := newTestEnv(b, nil)
	env.seed(b, "alice", "", "correct-password-123", permission.User)
	res := env.login(b, "alice", "correct-password-123")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := env.engine.Authenticate(context.Background(), res.AccessToken); err != nil {
			b.Fatalf("authenticate failed: %v", err)
		}
	}
}

func BenchmarkAuthenticateParallel(b *testing.B) {
	env := newTestEnv(b, nil)
	env.seed(b, "alice", "", "correct-password-123", permission.User)
	res := env.login(b, "alice", "correct-password-123")

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := env.engine.Authenticate(context.Background(), res.AccessToken); err != nil {
				b.Errorf("authenticate failed: %v", err)
				return
			}
		}
	})
}

func BenchmarkLogin(b *testing.B) {
	env := newTestEnv(b, nil)
	env.seed(b, "alice", "", "correct-password-123", permission.User)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := env.engine.Login(context.Background(), "alice", "correct-password-123"); err != nil {
			b.Fatalf("login failed: %v", err)
		}
	}
}
