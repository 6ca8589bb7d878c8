package jobs

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/services"
)

// BatchRunner is the part of the repricing service the scheduler drives.
type BatchRunner interface {
	RunBatch(ctx context.Context, cmd services.RunBatchCommand) (services.BatchRun, error)
}

// BatchSchedulerConfig tunes the scheduler.
type BatchSchedulerConfig struct {
	Interval   time.Duration
	SlowEvery  int
	Products   []string
	BatchLimit int
	RunTimeout time.Duration
}

// BatchScheduler triggers a repricing batch every Interval. Every SlowEvery-th cycle is a slow run.
type BatchScheduler struct {
	runner BatchRunner
	cfg    BatchSchedulerConfig
	logger *zap.Logger
	cycle  int
}

// NewBatchScheduler validates cfg and returns a scheduler.
func NewBatchScheduler(runner BatchRunner, cfg BatchSchedulerConfig, logger *zap.Logger) (*BatchScheduler, error) {
	if runner == nil {
		return nil, errors.New("batch scheduler: runner is required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("batch scheduler: interval must be positive")
	}
	if cfg.SlowEvery <= 0 {
		cfg.SlowEvery = 1
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = cfg.Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchScheduler{runner: runner, cfg: cfg, logger: logger}, nil
}

// Run blocks until ctx is cancelled, running one cycle per tick.
func (s *BatchScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	s.logger.Info("batch scheduler started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Int("slowEvery", s.cfg.SlowEvery),
	)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("batch scheduler stopped")
			return
		case <-ticker.C:
			_, _ = s.RunCycle(ctx)
		}
	}
}

// RunCycle runs one batch. Cycles are counted from 1, so the SlowEvery-th cycle is the first slow one.
func (s *BatchScheduler) RunCycle(ctx context.Context) (services.BatchRun, error) {
	s.cycle++
	slow := s.cycle%s.cfg.SlowEvery == 0

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	run, err := s.runner.RunBatch(runCtx, services.RunBatchCommand{
		ProductIDs: s.cfg.Products,
		SlowRun:    slow,
		Limit:      s.cfg.BatchLimit,
	})
	if err != nil {
		s.logger.Error("scheduled batch failed", zap.Int("cycle", s.cycle), zap.Bool("slowRun", slow), zap.Error(err))
		return services.BatchRun{}, err
	}
	if failed := run.Failed(); failed > 0 {
		s.logger.Error("scheduled batch had failed products",
			zap.String("runId", run.RunID),
			zap.Int("failed", failed),
			zap.Int("products", len(run.Products)),
		)
	}
	return run, nil
}
