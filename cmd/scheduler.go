package cmd

import (
	"context"
	"fmt"
	"time"

	"venue-booking/internal/usecase"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const cleanupTimeout = 30 * time.Second

// StartScheduler runs the periodic housekeeping jobs. Stop the returned cron
// on shutdown and wait for its context.
func StartScheduler(spec string, auth usecase.AuthService, log *zap.Logger) (*cron.Cron, error) {
	log = log.With(zap.String("component", "scheduler"))
	c := cron.New()

	if _, err := c.AddFunc(spec, sessionCleanupJob(auth, log)); err != nil {
		return nil, fmt.Errorf("schedule session cleanup %q: %w", spec, err)
	}

	c.Start()
	log.Info("Scheduler started", zap.String("session_cleanup", spec))
	return c, nil
}

func sessionCleanupJob(auth usecase.AuthService, log *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		removed, err := auth.CleanupExpiredSessions(ctx)
		if err != nil {
			log.Error("Session cleanup failed", zap.Error(err))
			return
		}
		log.Debug("Session cleanup finished", zap.Int64("removed", removed))
	}
}
