package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/identity"
	"github.com/MrEthical07/sessionauth/middleware"
	"github.com/MrEthical07/sessionauth/permission"
	"github.com/gin-gonic/gin"
)

// Service is the engine surface the routes need. *sessionauth.Engine
// implements it.
type Service interface {
	middleware.Authenticator
	Login(ctx context.Context, identifier, password string) (*sessionauth.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (*sessionauth.SessionRecord, error)
	RefreshSession(ctx context.Context, token string) (*sessionauth.SessionRecord, error)
	ListSessions(ctx context.Context, subject string) ([]*sessionauth.SessionRecord, error)
	ListAllSessions(ctx context.Context) ([]*sessionauth.SessionRecord, error)
	SessionStats(ctx context.Context) (sessionauth.SessionStats, error)
	RevokeAllSessions(ctx context.Context, subject string) (int, error)
	CleanupExpiredSessions(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Options are optional collaborators of the router.
type Options struct {
	// Metrics is mounted at GET /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

// Handler serves the auth and session routes on top of a Service.
type Handler struct {
	service    Service
	identities identity.Store
	metrics    http.Handler
	logger     *slog.Logger
}

// NewHandler builds a Handler. identities resolves targets for the admin
// session routes. A nil Options.Logger discards output.
func NewHandler(service Service, identities identity.Store, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		service:    service,
		identities: identities,
		metrics:    opts.Metrics,
		logger:     logger,
	}
}

// Router builds the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	h.RegisterRoutes(router)
	return router
}

// RegisterRoutes mounts /health, /auth and /session on r, plus /metrics
// when a metrics handler was supplied.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	guard := middleware.GinGuard(h.service)
	admin := middleware.GinRequireRole(permission.Admin)

	r.GET("/health", h.health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}

	auth := r.Group("/auth")
	auth.POST("/login", h.login)
	auth.POST("/logout", h.logout)
	auth.GET("/me", guard, h.me)

	sess := r.Group("/session", guard)
	sess.GET("/me", h.mySession)
	sess.POST("/refresh", h.refreshSession)

	sess.GET("/all", admin, h.allSessions)
	sess.GET("/stats", admin, h.sessionStats)
	sess.GET("/user/:user_id", admin, h.userSessions)
	sess.DELETE("/user/:user_id", admin, h.revokeUserSessions)
	sess.POST("/cleanup", admin, h.cleanup)
}

func (h *Handler) health(c *gin.Context) {
	if err := h.service.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "redis": "up"})
}

// fail writes err through the shared error mapping. Unmapped errors are
// logged since their detail never reaches the client.
func (h *Handler) fail(c *gin.Context, err error) {
	if status, _ := middleware.StatusFor(err); status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	middleware.GinAbortWithError(c, err)
}
