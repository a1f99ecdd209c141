package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/sso-api/internal/config"
	"github.com/jwalitptl/sso-api/internal/handler"
	securityHandler "github.com/jwalitptl/sso-api/internal/handler/security"
	"github.com/jwalitptl/sso-api/internal/middleware"
	"github.com/jwalitptl/sso-api/internal/repository/postgres"
	"github.com/jwalitptl/sso-api/internal/router"
	noteService "github.com/jwalitptl/sso-api/internal/service/note"
	notificationService "github.com/jwalitptl/sso-api/internal/service/notification"
	"github.com/jwalitptl/sso-api/internal/service/policy"
	resetService "github.com/jwalitptl/sso-api/internal/service/reset"
	securityService "github.com/jwalitptl/sso-api/internal/service/security"
	"github.com/jwalitptl/sso-api/internal/session"
	"github.com/jwalitptl/sso-api/pkg/auth"
	"github.com/jwalitptl/sso-api/pkg/logger"
	"github.com/jwalitptl/sso-api/pkg/metrics"
	pkgsecurity "github.com/jwalitptl/sso-api/pkg/security"
)

func main() {
	log.Logger = *logger.NewLogger(nil).Zerolog()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Session store: redis in deployment, in-memory when no redis is
	// configured.
	var sessions session.Store
	if cfg.Redis.URL != "" {
		sessions, err = session.NewRedisStore(session.RedisConfig{
			URL:          cfg.Redis.URL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else {
		log.Warn().Msg("no redis configured, using in-memory session store")
		sessions = session.NewMemoryStore(cfg.Security.GracePeriod)
	}

	base := postgres.NewBaseRepository(db)
	accountRepo := postgres.NewAccountRepository(base)
	securityRepo := postgres.NewSecurityRepository(base)
	noteRepo := postgres.NewNoteRepository(base)
	tokenRepo := postgres.NewTokenRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)

	m := metrics.NewMetrics("sso", "security")
	policies := policy.NewRegistry(cfg.Security.Policies)
	hasher := pkgsecurity.NewLegacyHasher()

	notes := noteService.NewService(noteRepo)
	notifications := notificationService.NewService(notificationRepo, m)
	records := securityService.NewService(securityRepo, policies, hasher, notes, m)
	authorizer := securityService.NewAuthorizer(records, sessions, notes, hasher, cfg.Security.GracePeriod, m)
	resets := resetService.NewService(accountRepo, records, tokenRepo, notes, notifications, cfg.Security.ResetTokenTTL, m)

	sessionTokens := auth.NewSessionTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(sessionTokens)
	resetLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Every(time.Minute),
		Burst: 5,
	})

	securityH := securityHandler.NewHandler(authorizer, records, resets, resetLimiter)
	healthH := handler.NewHealthHandler(db)

	r := router.NewRouter(authMiddleware, securityH, healthH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
