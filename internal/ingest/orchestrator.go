// Package ingest runs every job source concurrently and persists the merged,
// recent postings into the job store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jimezsa/fithire/internal/lock"
	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/scraper"
	"github.com/jimezsa/fithire/internal/store"
	"github.com/rs/zerolog"
)

const (
	DefaultLookback      = 15 * 24 * time.Hour
	DefaultSourceTimeout = 2 * time.Minute

	lockKey = "fithire:refresh"

	// collectGrace lets a source that honours its deadline hand back
	// partial results before the orchestrator stops waiting.
	collectGrace = 250 * time.Millisecond
)

var (
	// ErrPersistence wraps every job store failure during a refresh.
	ErrPersistence = errors.New("persist jobs")
	// ErrRefreshInProgress is returned when another refresh holds the lock.
	ErrRefreshInProgress = errors.New("refresh already in progress")
)

type Options struct {
	Lookback      time.Duration
	SourceTimeout time.Duration
	// SourceTimeouts overrides SourceTimeout per source name.
	SourceTimeouts map[string]time.Duration
	Now            func() time.Time
	// Fallback is stored when a refresh leaves no live postings. Nil uses SampleJobs.
	Fallback []models.JobPosting
	Locker   lock.Locker
	Logger   zerolog.Logger
}

// SourceResult describes one source's contribution to a refresh.
type SourceResult struct {
	Source   string        `json:"source"`
	Count    int           `json:"count"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report summarises a refresh.
type Report struct {
	Sources    []SourceResult `json:"sources"`
	Fetched    int            `json:"fetched"`
	Unique     int            `json:"unique"`
	Recent     int            `json:"recent"`
	Inserted   int            `json:"inserted"`
	Duplicates int            `json:"duplicates"`
	Fallback   bool           `json:"fallback"`
}

type Orchestrator struct {
	store    store.Store
	scrapers []scraper.Scraper
	opts     Options
	logger   zerolog.Logger
}

func New(st store.Store, scrapers []scraper.Scraper, opts Options) *Orchestrator {
	if opts.Lookback <= 0 {
		opts.Lookback = DefaultLookback
	}
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = DefaultSourceTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Fallback == nil {
		opts.Fallback = SampleJobs()
	}
	if opts.Locker == nil {
		opts.Locker = lock.NewLocal()
	}
	return &Orchestrator{
		store:    st,
		scrapers: scrapers,
		opts:     opts,
		logger:   opts.Logger,
	}
}

type sourceOutcome struct {
	jobs     []models.JobPosting
	err      error
	duration time.Duration
}

// Refresh fetches from every source, filters and persists the result. Source
// failures are logged and reported; only store failures fail the refresh.
func (o *Orchestrator) Refresh(ctx context.Context, params models.SearchParams) (Report, error) {
	release, ok, err := o.opts.Locker.TryLock(ctx, lockKey, o.lockTTL())
	if err != nil {
		return Report{}, fmt.Errorf("acquire refresh lock: %w", err)
	}
	if !ok {
		return Report{}, ErrRefreshInProgress
	}
	defer release()

	start := o.opts.Now()
	outcomes := o.runScrapers(ctx, params)

	var report Report
	var merged []models.JobPosting
	for i, sc := range o.scrapers {
		out := outcomes[i]
		result := SourceResult{Source: sc.Name(), Count: len(out.jobs), Duration: out.duration}
		if out.err != nil {
			result.Error = out.err.Error()
			o.logger.Warn().Str("source", sc.Name()).Err(out.err).Int("count", len(out.jobs)).Msg("source failed")
		} else if len(out.jobs) == 0 {
			o.logger.Warn().Str("source", sc.Name()).Msg("source returned no jobs")
		} else {
			o.logger.Info().Str("source", sc.Name()).Int("count", len(out.jobs)).Dur("duration", out.duration).Msg("source finished")
		}
		report.Sources = append(report.Sources, result)
		report.Fetched += len(out.jobs)
		merged = append(merged, out.jobs...)
	}

	unique := Dedupe(merged)
	report.Unique = len(unique)

	today := models.Day(o.opts.Now())
	recent := FilterRecent(unique, today, o.opts.Lookback)
	report.Recent = len(recent)

	if err := o.persist(ctx, recent, &report); err != nil {
		return report, err
	}

	if len(recent) == 0 {
		o.logger.Warn().Int("jobs", len(o.opts.Fallback)).Msg("no live postings, storing sample jobs")
		report.Fallback = true
		if err := o.persist(ctx, Seed(o.opts.Fallback, today), &report); err != nil {
			return report, err
		}
	}

	o.logger.Info().
		Int("fetched", report.Fetched).
		Int("recent", report.Recent).
		Int("inserted", report.Inserted).
		Int("duplicates", report.Duplicates).
		Dur("duration", o.opts.Now().Sub(start)).
		Msg("refresh complete")
	return report, nil
}

func (o *Orchestrator) persist(ctx context.Context, jobs []models.JobPosting, report *Report) error {
	for _, job := range jobs {
		inserted, err := o.store.Insert(ctx, job)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPersistence, job.ApplicationLink, err)
		}
		if inserted {
			report.Inserted++
		} else {
			report.Duplicates++
		}
	}
	return nil
}

// runScrapers runs each source under its own timeout. Outcomes are indexed by
// registration order so merging does not depend on completion order. The
// wait is bounded by the longest source timeout plus collectGrace: a source
// that ignores its context is abandoned and reported as timed out.
func (o *Orchestrator) runScrapers(ctx context.Context, params models.SearchParams) []sourceOutcome {
	outcomes := make([]sourceOutcome, len(o.scrapers))
	if len(o.scrapers) == 0 {
		return outcomes
	}

	type indexed struct {
		index int
		out   sourceOutcome
	}
	results := make(chan indexed, len(o.scrapers))
	for i, sc := range o.scrapers {
		go func() {
			results <- indexed{index: i, out: o.runScraper(ctx, sc, params)}
		}()
	}

	started := time.Now()
	timer := time.NewTimer(o.longestTimeout() + collectGrace)
	defer timer.Stop()

	done := make([]bool, len(o.scrapers))
	for pending := len(o.scrapers); pending > 0; pending-- {
		select {
		case r := <-results:
			outcomes[r.index] = r.out
			done[r.index] = true
		case <-timer.C:
			for i, sc := range o.scrapers {
				if done[i] {
					continue
				}
				o.logger.Warn().Str("source", sc.Name()).Msg("source ignored its deadline, abandoning")
				outcomes[i] = sourceOutcome{
					err:      fmt.Errorf("%s: %w", sc.Name(), context.DeadlineExceeded),
					duration: time.Since(started),
				}
			}
			return outcomes
		}
	}
	return outcomes
}

func (o *Orchestrator) runScraper(ctx context.Context, sc scraper.Scraper, params models.SearchParams) (out sourceOutcome) {
	ctx, cancel := context.WithTimeout(ctx, o.timeoutFor(sc.Name()))
	defer cancel()

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = sourceOutcome{err: fmt.Errorf("%s: panic: %v", sc.Name(), r)}
		}
		out.duration = time.Since(started)
	}()

	o.logger.Debug().Str("source", sc.Name()).Msg("source started")
	jobs, err := sc.Search(ctx, params)
	return sourceOutcome{jobs: jobs, err: err}
}

func (o *Orchestrator) timeoutFor(name string) time.Duration {
	if d, ok := o.opts.SourceTimeouts[name]; ok && d > 0 {
		return d
	}
	return o.opts.SourceTimeout
}

func (o *Orchestrator) longestTimeout() time.Duration {
	longest := o.opts.SourceTimeout
	for _, d := range o.opts.SourceTimeouts {
		if d > longest {
			longest = d
		}
	}
	return longest
}

// lockTTL outlives the slowest source plus time to persist.
func (o *Orchestrator) lockTTL() time.Duration {
	return o.longestTimeout() + time.Minute
}
