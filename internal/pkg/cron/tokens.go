package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/dor-app/dor-backend-go/internal/repository/postgresql"
)

// TokenJobs holds background maintenance for the refresh token store.
type TokenJobs struct {
	jwtRepo postgresql.JWTRepository
}

func NewTokenJobs(jwtRepo postgresql.JWTRepository) *TokenJobs {
	return &TokenJobs{jwtRepo: jwtRepo}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_refresh_tokens", 1*time.Hour, j.PurgeExpiredRefreshTokens)
}

// PurgeExpiredRefreshTokens removes refresh tokens past their expiry.
// Revoked tokens are kept until they expire so replay attempts still show
// up as revoked rather than unknown.
func (j *TokenJobs) PurgeExpiredRefreshTokens(ctx context.Context) error {
	deleted, err := j.jwtRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		return err
	}

	if deleted > 0 {
		slog.Info("Cron: Purged expired refresh tokens", "count", deleted)
	}
	return nil
}
