package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Innayatullahh/skydragon-test/config"
	"github.com/Innayatullahh/skydragon-test/handler"
	"github.com/Innayatullahh/skydragon-test/middleware"
	"github.com/Innayatullahh/skydragon-test/repository"
	"github.com/Innayatullahh/skydragon-test/services"
	"github.com/Innayatullahh/skydragon-test/usecase"
	"github.com/Innayatullahh/skydragon-test/utils"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

func serve(ctx context.Context, cfg *config.Config, logger hclog.Logger) error {
	gin.SetMode(cfg.Server.Mode)

	client, err := utils.NewMongoClient(ctx, cfg.Database.ClientOptions())
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("error disconnecting from MongoDB", "error", err)
		}
	}()
	logger.Info("connected to MongoDB", "database", cfg.Database.DatabaseName)

	health := map[string]handler.PingFunc{
		"mongo": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
	}

	deps := handler.RouterDeps{
		Tokens:         services.NewTokenIssuer(cfg.JWT),
		Health:         health,
		States:         map[string]handler.StateFunc{},
		RateLimiter:    middleware.NewRateLimiter(ctx, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		TrustedProxies: cfg.Server.TrustedProxies,
		Logger:         logger,
	}

	if cfg.Redis.Enabled {
		blacklist, err := services.NewTokenBlacklist(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer blacklist.Close()
		deps.Blacklist = blacklist
		deps.Revoker = blacklist
		health["redis"] = blacklist.Ping
		logger.Info("token blacklist enabled")
	} else {
		logger.Warn("REDIS_URL not set; logout and token revocation are disabled")
	}

	publisher := newPublisher(cfg.RabbitMQ, logger.Named("events"))
	defer publisher.Close()
	if bp, ok := publisher.(*services.BreakerPublisher); ok {
		deps.States["events_breaker"] = func() string { return bp.State().String() }
	}

	deps.Meetings = usecase.NewMeetingService(
		repository.GetMeetingsRepo(client, cfg.Database),
		repository.GetAuditRepo(client, cfg.Database),
		publisher,
		logger,
	)

	router, err := handler.NewRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}

// newPublisher falls back to a no-op publisher when RabbitMQ is disabled or
// unreachable at startup; events are best effort.
func newPublisher(cfg config.RabbitMQConfig, logger hclog.Logger) services.Publisher {
	if !cfg.Enabled {
		return services.NewNoopPublisher(logger)
	}
	rabbit, err := services.NewRabbitMQPublisher(cfg.URL, cfg.Exchange, logger)
	if err != nil {
		logger.Error("event publishing disabled", "error", err)
		return services.NewNoopPublisher(logger)
	}
	return services.NewBreakerPublisher(rabbit, cfg, logger)
}
