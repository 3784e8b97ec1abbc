package handler

import (
	"fmt"

	"github.com/Innayatullahh/skydragon-test/middleware"
	"github.com/Innayatullahh/skydragon-test/usecase"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps holds what the HTTP surface needs. Blacklist, Revoker,
// RateLimiter and States are optional. With no TrustedProxies the client IP
// is always the socket address.
type RouterDeps struct {
	Meetings       *usecase.MeetingService
	Tokens         middleware.TokenParser
	Blacklist      middleware.TokenBlacklist
	Revoker        TokenRevoker
	Health         map[string]PingFunc
	States         map[string]StateFunc
	RateLimiter    *middleware.RateLimiter
	MaxBodyBytes   int64
	TrustedProxies []string
	Logger         hclog.Logger
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router.Use(
		middleware.EnhancedRecoveryMiddleware(deps.Logger),
		middleware.RequestTracingMiddleware(),
		middleware.RequestLoggerMiddleware(deps.Logger.Named("access")),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(),
	)

	router.GET("/health", NewHealthHandler(deps.Health, deps.Logger).WithStates(deps.States).Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(middleware.RateLimit(deps.RateLimiter))
	}
	if deps.MaxBodyBytes > 0 {
		api.Use(middleware.RequestSizeLimiter(deps.MaxBodyBytes))
	}
	api.Use(
		middleware.NoStore(),
		middleware.AuthMiddleware(deps.Tokens, deps.Blacklist, deps.Logger),
	)

	NewMeetingHandler(deps.Meetings, deps.Logger).Register(api)
	NewAuthHandler(deps.Revoker, deps.Logger).Register(api)

	return router, nil
}
