package handler

import (
	"context"
	"time"

	"github.com/Innayatullahh/skydragon-test/middleware"
	"github.com/Innayatullahh/skydragon-test/utils"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

type TokenRevoker interface {
	Blacklist(ctx context.Context, token string, expiresAt time.Time) error
}

type AuthHandler struct {
	revoker TokenRevoker
	logger  hclog.Logger
}

// NewAuthHandler takes a nil revoker when Redis is not configured; logout
// then reports the service as unavailable.
func NewAuthHandler(revoker TokenRevoker, logger hclog.Logger) *AuthHandler {
	return &AuthHandler{revoker: revoker, logger: logger.Named("auth")}
}

func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
}

// Logout revokes the bearer token the request was authenticated with.
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.revoker == nil {
		utils.ServiceUnavailable(c, "Token revocation is not configured", nil)
		return
	}

	token := c.GetString(middleware.ContextToken)
	if token == "" {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	if err := h.revoker.Blacklist(c.Request.Context(), token, c.GetTime(middleware.ContextTokenExpiresAt)); err != nil {
		h.logger.Error("failed to blacklist token", "request_id", c.GetString(middleware.ContextRequestID), "error", err)
		utils.InternalError(c, "Failed to logout")
		return
	}

	h.logger.Info("user logged out", "user_id", c.GetString(middleware.ContextUserID))
	utils.SuccessMessage(c, "Successfully logged out", nil)
}
