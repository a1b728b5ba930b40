package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// LinkPurger deletes share links that expired before the given instant.
type LinkPurger interface {
	DeleteExpiredLinks(ctx context.Context, before time.Time) (int64, error)
}

// Compactor periodically removes share links that have been expired for
// longer than grace. Expired links are already refused on every check, so
// this only keeps the table small.
type Compactor struct {
	log       *zap.Logger
	repo      LinkPurger
	every     time.Duration
	grace     time.Duration
	now       func() time.Time
	scheduler *gocron.Scheduler
}

func NewCompactor(logger *zap.Logger, repo LinkPurger, every, grace time.Duration) *Compactor {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Compactor{
		log:       logger,
		repo:      repo,
		every:     every,
		grace:     grace,
		now:       time.Now,
		scheduler: s,
	}
}

// Run schedules the job and blocks until ctx is done. A zero period disables it.
func (c *Compactor) Run(ctx context.Context) error {
	if c.every <= 0 {
		c.log.Info("link compaction disabled")
		return nil
	}

	if _, err := c.scheduler.Every(c.every).Do(func() { c.compact(ctx) }); err != nil {
		return fmt.Errorf("schedule link compaction: %w", err)
	}

	c.scheduler.StartAsync()
	c.log.Info("link compaction scheduled", zap.Duration("every", c.every), zap.Duration("grace", c.grace))

	<-ctx.Done()
	c.scheduler.Stop()
	c.log.Info("link compaction stopped")

	return nil
}

func (c *Compactor) compact(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	before := c.now().UTC().Add(-c.grace)

	n, err := c.repo.DeleteExpiredLinks(ctx, before)
	if err != nil {
		c.log.Error("link compaction failed", zap.Error(err))
		return
	}
	if n > 0 {
		c.log.Info("expired share links removed", zap.Int64("count", n), zap.Time("before", before))
	}
}
