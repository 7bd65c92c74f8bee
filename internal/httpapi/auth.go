package httpapi

import (
	"net/http"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/middleware"
	"github.com/MrEthical07/sessionauth/permission"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	// UserID accepts either the subject id or the email alias.
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type principalResponse struct {
	UserID   string          `json:"user_id"`
	UserName string          `json:"user_name"`
	Email    string          `json:"email,omitempty"`
	Role     permission.Role `json:"role"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := middleware.WithClientMetadata(c.Request)
	res, err := h.service.Login(ctx, req.UserID, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	if res.SessionDegraded {
		h.logger.Warn("login without session record", "subject", res.Subject)
	}
	c.JSON(http.StatusOK, res)
}

// logout always succeeds; a missing or malformed header means there is
// nothing to end.
func (h *Handler) logout(c *gin.Context) {
	if token, ok := middleware.BearerToken(c.GetHeader("Authorization")); ok {
		ctx := middleware.WithClientMetadata(c.Request)
		if err := h.service.Logout(ctx, token); err != nil {
			h.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (h *Handler) me(c *gin.Context) {
	res, ok := middleware.GinAuthResult(c)
	if !ok {
		h.fail(c, sessionauth.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, principalResponse{
		UserID:   res.Subject,
		UserName: res.DisplayName,
		Email:    res.Alias,
		Role:     res.Role,
	})
}
