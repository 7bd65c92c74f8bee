package middleware

import (
	"net/http"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/permission"
	"github.com/gin-gonic/gin"
)

// GinGuard adapts [Guard] to gin. Rejected requests abort the chain.
func GinGuard(auth Authenticator) gin.HandlerFunc {
	guard := Guard(auth)
	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})

		guard(next).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}

// GinRequireRole is [RequireRole] for gin routes behind [GinGuard].
func GinRequireRole(min permission.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, _ := GinAuthResult(c)
		if err := res.Require(min); err != nil {
			GinAbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// GinAuthResult returns the principal attached by [GinGuard].
func GinAuthResult(c *gin.Context) (*sessionauth.AuthResult, bool) {
	return AuthResultFromContext(c.Request.Context())
}

// GinAbortWithError writes err the way [WriteError] does and aborts.
func GinAbortWithError(c *gin.Context, err error) {
	status, msg := StatusFor(err)
	SetChallenge(c.Writer.Header(), status)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
