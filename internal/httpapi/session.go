package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/identity"
	"github.com/MrEthical07/sessionauth/middleware"
	"github.com/gin-gonic/gin"
)

type sessionView struct {
	*sessionauth.SessionRecord
	TTL int64 `json:"ttl"`
}

type sessionListResponse struct {
	Sessions []sessionView `json:"sessions"`
	Total    int           `json:"total"`
}

func viewOf(rec *sessionauth.SessionRecord) sessionView {
	return sessionView{SessionRecord: rec, TTL: int64(rec.TTL.Seconds())}
}

func listOf(recs []*sessionauth.SessionRecord) sessionListResponse {
	out := sessionListResponse{Sessions: make([]sessionView, 0, len(recs)), Total: len(recs)}
	for _, rec := range recs {
		out.Sessions = append(out.Sessions, viewOf(rec))
	}
	return out
}

func (h *Handler) mySession(c *gin.Context) {
	res, _ := middleware.GinAuthResult(c)
	rec, err := h.service.Session(c.Request.Context(), res.Token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(rec))
}

func (h *Handler) refreshSession(c *gin.Context) {
	res, _ := middleware.GinAuthResult(c)
	rec, err := h.service.RefreshSession(c.Request.Context(), res.Token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Session refreshed successfully",
		"ttl":     int64(rec.TTL.Seconds()),
	})
}

func (h *Handler) allSessions(c *gin.Context) {
	recs, err := h.service.ListAllSessions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(recs))
}

func (h *Handler) sessionStats(c *gin.Context) {
	stats, err := h.service.SessionStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) userSessions(c *gin.Context) {
	subject := c.Param("user_id")
	recs, err := h.service.ListSessions(c.Request.Context(), subject)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(recs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no active sessions found for user: %s", subject)})
		return
	}
	c.JSON(http.StatusOK, listOf(recs))
}

func (h *Handler) revokeUserSessions(c *gin.Context) {
	subject := c.Param("user_id")
	caller, _ := middleware.GinAuthResult(c)

	if err := h.checkManage(c, caller, subject); err != nil {
		h.fail(c, err)
		return
	}

	n, err := h.service.RevokeAllSessions(c.Request.Context(), subject)
	if err != nil {
		h.fail(c, err)
		return
	}
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no active sessions found for user: %s", subject)})
		return
	}

	h.logger.Info("sessions revoked by admin",
		"subject", subject,
		"actor", caller.Subject,
		"count", n,
	)
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Successfully deleted %d session(s) for user %s", n, subject),
		"deleted_count": n,
	})
}

// checkManage enforces the role hierarchy when the target account is
// known. Unknown subjects may still hold sessions and are not blocked.
func (h *Handler) checkManage(c *gin.Context, caller *sessionauth.AuthResult, subject string) error {
	if h.identities == nil || caller.Subject == subject {
		return nil
	}
	target, err := h.identities.FindBySubject(c.Request.Context(), subject)
	if errors.Is(err, identity.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup target: %w", err)
	}
	if target != nil && !caller.CanManage(target.Role) {
		return fmt.Errorf("%w: cannot manage %s", sessionauth.ErrInsufficientRole, target.Role)
	}
	return nil
}

func (h *Handler) cleanup(c *gin.Context) {
	n, err := h.service.CleanupExpiredSessions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cleanup completed", "cleaned_sessions": n})
}
