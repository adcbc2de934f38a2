package scheduler

import (
	"context"
	"time"

	"chatspace/internal/config"
	"chatspace/pkg/logger"
)

// Scheduler triggers the dispatcher on two cadences: an interval sweep
// and a fixed daily hour. Both call the same idempotent Run, so the
// overlap is harmless.
type Scheduler struct {
	dispatcher *Dispatcher
	cfg        config.SchedulerConfig
}

func NewScheduler(dispatcher *Dispatcher, cfg config.SchedulerConfig) *Scheduler {
	return &Scheduler{dispatcher: dispatcher, cfg: cfg}
}

// Start launches both trigger loops. They stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.runInterval(ctx)
	go s.runDaily(ctx)
	logger.Info("Event scheduler started")
}

func (s *Scheduler) runInterval(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.dispatcher.Run(ctx)
		}
	}
}

func (s *Scheduler) runDaily(ctx context.Context) {
	for {
		timer := time.NewTimer(time.Until(s.nextDailyRun(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			logger.Info("Running daily event reminder check")
			s.dispatcher.Run(ctx)
		}
	}
}

func (s *Scheduler) nextDailyRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.DailyRunHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
