// Package scheduler drives the periodic collection tick. The host triggers
// collection on a fixed interval; the callback owns its own synchronization,
// the scheduler only provides the cadence.
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Scheduler invokes a callback once per interval until the context is
// cancelled.
type Scheduler struct {
	interval time.Duration
	callback func()
	logger   *zap.Logger
}

// New validates the interval and callback.
func New(interval time.Duration, callback func(), logger *zap.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.Errorf("collect interval must be positive, got %s", interval)
	}
	if callback == nil {
		return nil, errors.New("callback is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{interval: interval, callback: callback, logger: logger}, nil
}

// Run blocks until ctx is done, firing the callback on every tick. The first
// tick fires after one full interval.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("collection scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("collection scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.callback()
		}
	}
}
