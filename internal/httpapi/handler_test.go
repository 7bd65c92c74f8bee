package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/identity"
	"github.com/MrEthical07/sessionauth/permission"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type apiEnv struct {
	router     *gin.Engine
	engine     *sessionauth.Engine
	identities *identity.MemoryStore
	mr         *miniredis.Miniredis
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	cfg := sessionauth.DefaultConfig()
	cfg.JWT.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Session.StoreTimeout = 200 * time.Millisecond
	cfg.Password = sessionauth.PasswordConfig{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	ids := identity.NewMemoryStore()
	engine, err := sessionauth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithIdentityStore(ids).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("sessionauth_login_success_total 0\n"))
	})
	h := NewHandler(engine, ids, Options{Metrics: metrics})

	env := &apiEnv{router: h.Router(), engine: engine, identities: ids, mr: mr}
	env.seed(t, "alice", "alice@example.com", permission.User, true)
	env.seed(t, "carol", "carol@example.com", permission.User, false)
	env.seed(t, "adam", "adam@example.com", permission.Admin, true)
	env.seed(t, "root", "root@example.com", permission.SuperAdmin, true)
	return env
}

func (env *apiEnv) seed(t *testing.T, subject, alias string, role permission.Role, active bool) {
	t.Helper()
	hash, err := env.engine.HashPassword("pw-" + subject)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	err = env.identities.Put(identity.Record{
		Principal: identity.Principal{
			Subject:     subject,
			DisplayName: strings.ToUpper(subject),
			Alias:       alias,
			Role:        role,
			Active:      active,
		},
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func (env *apiEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *apiEnv) login(t *testing.T, subject string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"user_id":  subject,
		"password": "pw-" + subject,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", subject, rec.Code, rec.Body.String())
	}
	var res sessionauth.LoginResult
	decode(t, rec, &res)
	return res.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestLoginResponseShape(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"user_id":  "alice@example.com",
		"password": "pw-alice",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	decode(t, rec, &body)
	if body["user_id"] != "alice" || body["user_name"] != "ALICE" || body["email"] != "alice@example.com" {
		t.Fatalf("unexpected identity fields: %v", body)
	}
	if body["role"] != "user" || body["token_type"] != "bearer" {
		t.Fatalf("unexpected role or token type: %v", body)
	}
	if body["expires_in"] != float64(3600) {
		t.Fatalf("expected expires_in 3600, got %v", body["expires_in"])
	}
	if tok, _ := body["access_token"].(string); tok == "" {
		t.Fatal("missing access_token")
	}
}

func TestLoginRejections(t *testing.T) {
	env := newAPIEnv(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{name: "wrong password", body: map[string]string{"user_id": "alice", "password": "nope"}, status: http.StatusUnauthorized},
		{name: "unknown subject", body: map[string]string{"user_id": "mallory", "password": "nope"}, status: http.StatusUnauthorized},
		{name: "inactive", body: map[string]string{"user_id": "carol", "password": "pw-carol"}, status: http.StatusForbidden},
		{name: "missing password", body: map[string]string{"user_id": "alice"}, status: http.StatusBadRequest},
		{name: "no body", body: nil, status: http.StatusBadRequest},
	}

	var wrongBody, unknownBody string
	for _, tt := range tests {
		rec := env.do(t, http.MethodPost, "/auth/login", "", tt.body)
		if rec.Code != tt.status {
			t.Fatalf("%s: status = %d, want %d: %s", tt.name, rec.Code, tt.status, rec.Body.String())
		}
		switch tt.name {
		case "wrong password":
			wrongBody = rec.Body.String()
			if rec.Header().Get("WWW-Authenticate") == "" {
				t.Fatal("missing challenge on failed login")
			}
		case "unknown subject":
			unknownBody = rec.Body.String()
		}
	}
	if wrongBody != unknownBody {
		t.Fatalf("failures are distinguishable: %q vs %q", wrongBody, unknownBody)
	}
}

func TestMeLogoutFlow(t *testing.T) {
	env := newAPIEnv(t)
	token := env.login(t, "alice")

	rec := env.do(t, http.MethodGet, "/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}
	var me principalResponse
	decode(t, rec, &me)
	if me.UserID != "alice" || me.Role != permission.User {
		t.Fatalf("unexpected principal %+v", me)
	}

	if rec := env.do(t, http.MethodGet, "/auth/me", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: %d", rec.Code)
	}

	for i := 0; i < 2; i++ {
		if rec := env.do(t, http.MethodPost, "/auth/logout", token, nil); rec.Code != http.StatusOK {
			t.Fatalf("logout %d: %d", i, rec.Code)
		}
	}
	if rec := env.do(t, http.MethodPost, "/auth/logout", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("logout without header: %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/auth/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "session expired") {
		t.Fatalf("expected session expired message, got %s", rec.Body.String())
	}
}

func TestSessionMeAndRefresh(t *testing.T) {
	env := newAPIEnv(t)
	token := env.login(t, "alice")

	env.mr.FastForward(50 * time.Minute)

	rec := env.do(t, http.MethodGet, "/session/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("session/me: %d %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	if body["user_id"] != "alice" {
		t.Fatalf("unexpected session %v", body)
	}
	if ttl, _ := body["ttl"].(float64); ttl <= 0 {
		t.Fatalf("expected positive ttl, got %v", body["ttl"])
	}

	rec = env.do(t, http.MethodPost, "/session/refresh", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &body)
	if body["ttl"] != float64(3600) {
		t.Fatalf("expected refreshed ttl 3600, got %v", body["ttl"])
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newAPIEnv(t)
	user := env.login(t, "alice")

	for _, path := range []string{"/session/all", "/session/stats", "/session/user/alice"} {
		if rec := env.do(t, http.MethodGet, path, user, nil); rec.Code != http.StatusForbidden {
			t.Fatalf("%s as user: %d", path, rec.Code)
		}
	}
	if rec := env.do(t, http.MethodPost, "/session/cleanup", user, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("cleanup as user: %d", rec.Code)
	}
}

func TestAdminListAndStats(t *testing.T) {
	env := newAPIEnv(t)
	env.login(t, "alice")
	env.login(t, "alice")
	admin := env.login(t, "adam")

	rec := env.do(t, http.MethodGet, "/session/all", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("all: %d %s", rec.Code, rec.Body.String())
	}
	var list sessionListResponse
	decode(t, rec, &list)
	if list.Total != 3 || len(list.Sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", list.Total)
	}

	rec = env.do(t, http.MethodGet, "/session/user/alice", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("user sessions: %d", rec.Code)
	}
	decode(t, rec, &list)
	if list.Total != 2 {
		t.Fatalf("expected 2 alice sessions, got %d", list.Total)
	}

	if rec := env.do(t, http.MethodGet, "/session/user/nobody", admin, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user sessions: %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/session/stats", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: %d", rec.Code)
	}
	var stats sessionauth.SessionStats
	decode(t, rec, &stats)
	if stats.Total != 3 || stats.ByRole["user"] != 2 || stats.ByRole["admin"] != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	rec = env.do(t, http.MethodPost, "/session/cleanup", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cleanup: %d", rec.Code)
	}
	var cleanup map[string]any
	decode(t, rec, &cleanup)
	if cleanup["cleaned_sessions"] != float64(0) {
		t.Fatalf("unexpected cleanup result %v", cleanup)
	}
}

func TestRevokeUserSessions(t *testing.T) {
	env := newAPIEnv(t)
	aliceToken := env.login(t, "alice")
	env.login(t, "root")
	admin := env.login(t, "adam")

	if rec := env.do(t, http.MethodDelete, "/session/user/root", admin, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("admin revoking super admin: %d", rec.Code)
	}

	rec := env.do(t, http.MethodDelete, "/session/user/alice", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("revoke alice: %d %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	if body["deleted_count"] != float64(1) {
		t.Fatalf("unexpected deleted_count %v", body["deleted_count"])
	}

	if rec := env.do(t, http.MethodDelete, "/session/user/alice", admin, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second revoke: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/auth/me", aliceToken, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token still valid: %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	env := newAPIEnv(t)

	if rec := env.do(t, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	rec := env.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "sessionauth_") {
		t.Fatalf("metrics: %d %s", rec.Code, rec.Body.String())
	}

	env.mr.Close()
	if rec := env.do(t, http.MethodGet, "/health", "", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("health with registry down: %d", rec.Code)
	}
}

func TestLoginDegradedWhenRegistryDown(t *testing.T) {
	env := newAPIEnv(t)
	env.mr.Close()

	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"user_id": "alice", "password": "pw-alice"})
	if rec.Code != http.StatusOK {
		t.Fatalf("degraded login: %d %s", rec.Code, rec.Body.String())
	}
	var res sessionauth.LoginResult
	decode(t, rec, &res)
	if !res.SessionDegraded || res.AccessToken == "" {
		t.Fatalf("expected degraded login with token, got %+v", res)
	}

	if rec := env.do(t, http.MethodGet, "/session/all", res.AccessToken, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("sessionless token accepted: %d", rec.Code)
	}
}

var _ Service = (*sessionauth.Engine)(nil)
