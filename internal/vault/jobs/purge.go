package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Purger hard-deletes projects that have been soft-deleted for longer than retention.
type Purger interface {
	PurgeDeleted(ctx context.Context, retention time.Duration) (int64, error)
}

// Scheduler runs the purge job on a cron schedule (with seconds field).
type Scheduler struct {
	cron      *cron.Cron
	purger    Purger
	retention time.Duration
	timeout   time.Duration
	log       *zap.Logger
}

func NewScheduler(purger Purger, retention time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		purger:    purger,
		retention: retention,
		timeout:   time.Minute,
		log:       log,
	}
}

// Start registers the purge job and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return fmt.Errorf("failed to create purge job: %w", err)
	}
	s.cron.Start()
	s.log.Info("purge scheduler started", zap.String("schedule", schedule), zap.Duration("retention", s.retention))
	return nil
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce executes a single purge pass.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.purger.PurgeDeleted(ctx, s.retention)
	if err != nil {
		s.log.Error("purge job failed", zap.Error(err))
		return
	}
	s.log.Info("purge job completed", zap.Int64("purged", n))
}
