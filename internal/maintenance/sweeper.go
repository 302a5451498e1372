// Package maintenance runs periodic cleanup jobs. Refresh-token rows
// are only consulted while cryptographically valid, so expired rows
// are dead weight; the sweeper removes them on a schedule.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/medetbek/finance-tracker/internal/metrics"
	"github.com/medetbek/finance-tracker/internal/repository"
	"github.com/robfig/cron/v3"
)

type Sweeper struct {
	tokens   repository.RefreshTokenRepository
	logger   *slog.Logger
	schedule string
	cron     *cron.Cron
}

func NewSweeper(tokens repository.RefreshTokenRepository, schedule string, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		tokens:   tokens,
		logger:   logger.With("component", "sweeper"),
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the sweep job and launches the cron scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("sweep expired refresh tokens", "error", err)
		return
	}
	if removed > 0 {
		metrics.ExpiredTokensSweptTotal.Add(float64(removed))
		s.logger.Info("swept expired refresh tokens", "removed", removed)
	}
}
