package snapshot

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Scheduler fires the snapshot job once per day at a fixed wall-clock time.
// It is owned by the process's top-level runtime; no state survives between
// invocations beyond what the job persists.
type Scheduler struct {
	job    *Job
	hour   int
	minute int
	logger *zap.Logger
}

// NewScheduler creates a scheduler that triggers job daily at hour:minute
// local time.
func NewScheduler(job *Job, hour, minute int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		job:    job,
		hour:   hour,
		minute: minute,
		logger: logger,
	}
}

// Start blocks, firing the job at each daily trigger until ctx is cancelled.
// Run it in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	for {
		next := nextRun(time.Now(), s.hour, s.minute)
		s.logger.Info("next snapshot run scheduled", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("snapshot scheduler stopped")
			return
		case <-timer.C:
		}

		if _, err := s.job.Run(ctx); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			s.logger.Error("scheduled snapshot run failed", zap.Error(err))
		}
	}
}

// nextRun returns the next occurrence of hour:minute strictly after now
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
