package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/Innayatullahh/skydragon-test/services"
	"github.com/Innayatullahh/skydragon-test/utils"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID         = "user_id"
	ContextToken          = "token"
	ContextTokenExpiresAt = "token_expires_at"
)

type TokenParser interface {
	ParseToken(tokenString string) (*services.TokenClaims, error)
}

type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware requires a valid bearer token. blacklist may be nil when
// Redis is not configured.
func AuthMiddleware(parser TokenParser, blacklist TokenBlacklist, logger hclog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			TrackAuthFailure("missing_token")
			utils.Unauthorized(c, "Missing or invalid token")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := parser.ParseToken(tokenString)
		if err != nil {
			TrackAuthFailure("invalid_token")
			utils.Unauthorized(c, "Invalid token")
			return
		}

		if blacklist != nil {
			listed, err := blacklist.IsBlacklisted(c.Request.Context(), tokenString)
			if err != nil {
				// Redis being down does not lock everyone out.
				TrackError("blacklist_unavailable")
				logger.Warn("token blacklist unavailable", "request_id", c.GetString(ContextRequestID), "error", err)
			} else if listed {
				TrackAuthFailure("revoked_token")
				utils.Unauthorized(c, "Token has been invalidated")
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextToken, tokenString)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExpiresAt, claims.ExpiresAt.Time)
		} else {
			c.Set(ContextTokenExpiresAt, time.Time{})
		}

		c.Next()
	}
}
