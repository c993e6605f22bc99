// Package scheduler wires up the cron job that periodically re-scores
// unscored jobs for every active client with a stored resume.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"jobautomation/pipeline-service/internal/clients"
	"jobautomation/pipeline-service/internal/pipeline"
)

// Scheduler wraps robfig/cron and manages the scoring sweep loop.
type Scheduler struct {
	cron    *cron.Cron
	pipe    *pipeline.Service
	clients *clients.Service
	log     *zap.Logger
	spec    string // cron spec, e.g. "@every 6h"
	limit   int    // max jobs scored per client per cycle
}

// New creates a Scheduler that fires every intervalHours hours.
func New(pipe *pipeline.Service, cs *clients.Service, log *zap.Logger, intervalHours, limit int) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		pipe:    pipe,
		clients: cs,
		log:     log,
		spec:    fmt.Sprintf("@every %dh", intervalHours),
		limit:   limit,
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so fresh ingests are scored without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweeps(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("sweep scheduler started", zap.String("spec", s.spec))

	go s.runSweeps(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("sweep scheduler stopped")
}

// runSweeps scores unscored jobs for every client with a resume. Per-client
// failures are logged and skipped so one bad client cannot stall the cycle.
func (s *Scheduler) runSweeps(ctx context.Context) {
	ids, err := s.clients.ClientIDsWithResume(ctx)
	if err != nil {
		s.log.Error("sweep cycle: loading clients failed", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		s.log.Debug("sweep cycle: no clients with a stored resume")
		return
	}

	var total int
	for _, id := range ids {
		scored, err := s.pipe.ScoreSweep(ctx, id, s.limit)
		if err != nil {
			// A resume can disappear between listing and sweeping; treat
			// that like any other per-client failure.
			if !errors.Is(err, pipeline.ErrNoResume) {
				s.log.Warn("sweep failed for client",
					zap.Int64("clientId", id), zap.Error(err))
			}
			continue
		}
		total += scored
	}

	s.log.Info("sweep cycle complete",
		zap.Int("clients", len(ids)), zap.Int("jobsScored", total))
}
