package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/otsproof-backend/internal/clock"
)

const (
	defaultInitialDelay  = 5 * time.Second
	defaultSweepInterval = 60 * time.Second
)

// SchedulerService runs reconciliation sweeps on a fixed period.
type SchedulerService struct {
	sweeper      Sweeper
	logger       *zap.Logger
	sleep        func(context.Context, time.Duration) error
	initialDelay time.Duration
	interval     time.Duration
}

// NewSchedulerService builds a scheduler. Non-positive durations fall back to
// a 5s initial delay and a 60s interval.
func NewSchedulerService(sweeper Sweeper, logger *zap.Logger, initialDelay, interval time.Duration) *SchedulerService {
	if initialDelay <= 0 {
		initialDelay = defaultInitialDelay
	}
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &SchedulerService{
		sweeper:      sweeper,
		logger:       logger.Named("scheduler"),
		sleep:        clock.SleepWithContext,
		initialDelay: initialDelay,
		interval:     interval,
	}
}

// Run sweeps until ctx is cancelled. The interval is measured from the end of
// one sweep to the start of the next, so sweeps never overlap.
func (s *SchedulerService) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		zap.Duration("initial_delay", s.initialDelay),
		zap.Duration("interval", s.interval),
	)
	if err := s.sleep(ctx, s.initialDelay); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.run(ctx)
		if err := s.sleep(ctx, s.interval); err != nil {
			return err
		}
	}
}

func (s *SchedulerService) run(ctx context.Context) {
	res, err := s.sweeper.RunSweep(ctx)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Info("sweep interrupted", zap.Error(err))
	case err != nil:
		s.logger.Error("sweep failed", zap.Error(err))
	default:
		s.logger.Debug("sweep done",
			zap.Int("pending", res.Pending),
			zap.Int("confirmed", res.Confirmed),
			zap.Bool("saved", res.Saved),
		)
	}
}
