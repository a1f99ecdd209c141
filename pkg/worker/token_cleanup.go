package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/sso-api/internal/repository"
)

// TokenCleanupWorker periodically purges expired and redeemed reset
// tokens.
type TokenCleanupWorker struct {
	repo     repository.TokenRepository
	interval time.Duration
	logger   *zerolog.Logger
}

func NewTokenCleanupWorker(repo repository.TokenRepository, interval time.Duration, logger *zerolog.Logger) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		repo:     repo,
		interval: interval,
		logger:   logger,
	}
}

func (w *TokenCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := w.repo.DeleteExpiredBefore(ctx, time.Now().UTC())
			if err != nil {
				w.logger.Error().Err(err).Msg("token cleanup failed")
				continue
			}
			if deleted > 0 {
				w.logger.Info().Int64("deleted", deleted).Msg("purged stale reset tokens")
			}
		}
	}
}
