package flows

import (
	"context"
	"testing"

	"github.com/MrEthical07/sessionauth/store"
)

type fakeLogoutSessions struct {
	deleteStatus store.Status
	revoked      int
	revokeStatus store.Status
	deleteCalls  int
}

func (f *fakeLogoutSessions) Delete(context.Context, string) store.Status {
	f.deleteCalls++
	return f.deleteStatus
}

func (f *fakeLogoutSessions) RevokeAllForSubject(context.Context, string) (int, store.Status) {
	return f.revoked, f.revokeStatus
}

func TestRunLogout(t *testing.T) {
	f := &fakeLogoutSessions{deleteStatus: store.Found}
	if res := RunLogout(context.Background(), "tok", LogoutDeps{Sessions: f}); !res.Existed || res.StoreUnavailable {
		t.Fatalf("unexpected result %+v", res)
	}

	f.deleteStatus = store.Absent
	if res := RunLogout(context.Background(), "tok", LogoutDeps{Sessions: f}); res.Existed {
		t.Fatalf("unexpected result %+v", res)
	}

	f.deleteStatus = store.Unavailable
	if res := RunLogout(context.Background(), "tok", LogoutDeps{Sessions: f}); !res.StoreUnavailable {
		t.Fatalf("unexpected result %+v", res)
	}

	calls := f.deleteCalls
	RunLogout(context.Background(), "", LogoutDeps{Sessions: f})
	if f.deleteCalls != calls {
		t.Fatal("empty token must not touch the registry")
	}
}

func TestRunLogoutAll(t *testing.T) {
	f := &fakeLogoutSessions{revoked: 3, revokeStatus: store.Found}
	n, res := RunLogoutAll(context.Background(), "alice", LogoutDeps{Sessions: f})
	if n != 3 || !res.Existed {
		t.Fatalf("unexpected result %d %+v", n, res)
	}
	if n, _ := RunLogoutAll(context.Background(), "", LogoutDeps{Sessions: f}); n != 0 {
		t.Fatal("empty subject must be a no-op")
	}
}
