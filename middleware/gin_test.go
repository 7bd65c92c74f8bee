package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/permission"
	"github.com/gin-gonic/gin"
)

func newGinRouter(auth Authenticator, min permission.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/", GinGuard(auth), GinRequireRole(min))
	g.GET("/me", func(c *gin.Context) {
		res, ok := GinAuthResult(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": res.Subject})
	})
	return r
}

func TestGinGuardPassesPrincipal(t *testing.T) {
	auth := &fakeAuth{res: &sessionauth.AuthResult{Subject: "alice", Role: permission.User}}
	r := newGinRouter(auth, permission.User)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != `{"user_id":"alice"}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestGinGuardAbortsOnRejection(t *testing.T) {
	auth := &fakeAuth{err: sessionauth.ErrSessionExpired}
	r := newGinRouter(auth, permission.User)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("missing challenge header")
	}
}

func TestGinRequireRoleForbids(t *testing.T) {
	auth := &fakeAuth{res: &sessionauth.AuthResult{Subject: "alice", Role: permission.User}}
	r := newGinRouter(auth, permission.Admin)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
