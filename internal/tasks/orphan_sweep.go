package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultSweepBatch = 500

// OrphanFinder lists media assets that no lecture references
type OrphanFinder interface {
	FindOrphans(ctx context.Context, before time.Time, limit int) ([]string, error)
}

// CleanupEnqueuer schedules asset deletion
type CleanupEnqueuer interface {
	EnqueueMediaCleanup(ctx context.Context, assetIDs []string, reason string) error
}

// OrphanSweeper finds unreferenced assets older than minAge and queues them for deletion
type OrphanSweeper struct {
	finder   OrphanFinder
	enqueuer CleanupEnqueuer
	minAge   time.Duration
	batch    int
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrphanSweeper creates a sweeper. minAge keeps fresh uploads that are not bound to a lecture yet.
func NewOrphanSweeper(finder OrphanFinder, enqueuer CleanupEnqueuer, minAge time.Duration, logger *zap.Logger) *OrphanSweeper {
	return &OrphanSweeper{
		finder:   finder,
		enqueuer: enqueuer,
		minAge:   minAge,
		batch:    defaultSweepBatch,
		logger:   logger,
		now:      time.Now,
	}
}

// Sweep queues one batch of orphaned assets and returns how many were queued
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	before := s.now().Add(-s.minAge)

	ids, err := s.finder.FindOrphans(ctx, before, s.batch)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.enqueuer.EnqueueMediaCleanup(ctx, ids, "orphan sweep"); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Run performs one sweep and logs the outcome; it is the cron job entry point
func (s *OrphanSweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	queued, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("orphan sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("orphan sweep finished", zap.Int("queued", queued))
}
