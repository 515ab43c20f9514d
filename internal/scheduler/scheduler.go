// Package scheduler triggers periodic ingestion runs in serve mode.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunFunc executes one ingestion run for "today".
type RunFunc func(ctx context.Context) error

// Scheduler wraps a cron runner around the ingestion pipeline.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	running atomic.Bool
}

// New builds a Scheduler that invokes run on the given cron expression.
// Overlapping ticks are skipped: if a run is still in flight when the next
// tick fires, the tick is dropped rather than racing a second run.
func New(spec string, run RunFunc, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
	_, err := s.cron.AddFunc(spec, func() {
		if !s.running.CompareAndSwap(false, true) {
			s.logger.Warn("skipping scheduled run, previous run still in flight")
			return
		}
		defer s.running.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := run(ctx); err != nil {
			s.logger.Error("scheduled ingestion run failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing ticks in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts future ticks and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
