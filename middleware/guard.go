package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/permission"
)

// Authenticator validates bearer tokens. *sessionauth.Engine implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*sessionauth.AuthResult, error)
}

type authResultContextKey struct{}

// AuthResultFromContext returns the principal attached by [Guard].
func AuthResultFromContext(ctx context.Context) (*sessionauth.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*sessionauth.AuthResult)
	return res, ok && res != nil
}

// WithAuthResult attaches res to ctx.
func WithAuthResult(ctx context.Context, res *sessionauth.AuthResult) context.Context {
	return context.WithValue(ctx, authResultContextKey{}, res)
}

// Guard rejects requests without a live session. Rejections are written
// with [WriteError]; accepted requests carry the principal and client
// metadata in their context.
func Guard(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				WriteError(w, sessionauth.ErrEngineNotReady)
				return
			}

			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				WriteError(w, sessionauth.ErrUnauthenticated)
				return
			}

			ctx := WithClientMetadata(r)
			res, err := auth.Authenticate(ctx, token)
			if err != nil {
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuthResult(ctx, res)))
		})
	}
}

// RequireRole must run behind [Guard]. It answers 403 unless the principal
// holds at least min.
func RequireRole(min permission.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, _ := AuthResultFromContext(r.Context())
			if err := res.Require(min); err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func BearerToken(value string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WithClientMetadata returns the request context annotated with the client
// IP and user agent.
func WithClientMetadata(r *http.Request) context.Context {
	ctx := sessionauth.WithClientIP(r.Context(), ClientIP(r))
	return sessionauth.WithUserAgent(ctx, r.UserAgent())
}
