// Package scheduler triggers periodic job refreshes on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jimezsa/fithire/internal/ingest"
	"github.com/jimezsa/fithire/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSpec refreshes every six hours.
const DefaultSpec = "@every 6h"

// Refresher runs one ingestion pass.
type Refresher interface {
	Refresh(ctx context.Context, params models.SearchParams) (ingest.Report, error)
}

// Scheduler wraps robfig/cron and runs the refresh loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	params    models.SearchParams
	spec      string
	logger    zerolog.Logger
	initial   sync.WaitGroup
}

func New(refresher Refresher, params models.SearchParams, spec string, logger zerolog.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cronLogger{logger: logger})),
		refresher: refresher,
		params:    params,
		spec:      spec,
		logger:    logger,
	}
}

// Start registers the job and starts the scheduler. One refresh runs
// immediately so the store is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("scheduler started")

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		s.run(ctx)
	}()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.initial.Wait()
	s.logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := s.refresher.Refresh(ctx, s.params)
	switch {
	case errors.Is(err, ingest.ErrRefreshInProgress):
		s.logger.Info().Msg("refresh already running, skipping tick")
	case err != nil:
		s.logger.Error().Err(err).Msg("scheduled refresh failed")
	default:
		s.logger.Info().
			Int("inserted", report.Inserted).
			Int("duplicates", report.Duplicates).
			Bool("fallback", report.Fallback).
			Msg("scheduled refresh done")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
