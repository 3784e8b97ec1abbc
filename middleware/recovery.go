package middleware

import (
	"runtime/debug"

	"github.com/Innayatullahh/skydragon-test/utils"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

func EnhancedRecoveryMiddleware(logger hclog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(ContextRequestID),
					"stack", string(debug.Stack()),
				)
				TrackError("panic")
				utils.InternalError(c, "Internal server error")
			}
		}()
		c.Next()
	}
}
