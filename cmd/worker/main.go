package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/sso-api/internal/config"
	"github.com/jwalitptl/sso-api/internal/email"
	"github.com/jwalitptl/sso-api/internal/repository/postgres"
	"github.com/jwalitptl/sso-api/pkg/logger"
	"github.com/jwalitptl/sso-api/pkg/metrics"
	"github.com/jwalitptl/sso-api/pkg/worker"
)

// workerConfig comes from the environment; the worker runs as a
// separate process without the API's config file.
type workerConfig struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	SMTP email.SMTPConfig

	MailInterval    time.Duration `envconfig:"MAIL_INTERVAL" default:"30s"`
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`
}

func main() {
	var cfg workerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	notificationRepo := postgres.NewNotificationRepository(base)
	accountRepo := postgres.NewAccountRepository(base)
	tokenRepo := postgres.NewTokenRepository(base)

	m := metrics.NewMetrics("sso", "worker")
	sender := email.NewSMTPSender(cfg.SMTP)

	workerLog := logger.NewLogger(nil).WithFields(map[string]interface{}{"component": "worker"}).Zerolog()

	mailWorker := worker.NewMailWorker(notificationRepo, accountRepo, sender, cfg.MailInterval, m, workerLog)
	cleanupWorker := worker.NewTokenCleanupWorker(tokenRepo, cfg.CleanupInterval, workerLog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go mailWorker.Start(ctx)
	go cleanupWorker.Start(ctx)

	log.Info().Msg("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("worker shutting down")
	cancel()
}
