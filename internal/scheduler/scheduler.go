// Package scheduler drives the daily survivor workflow on a fixed cadence.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bracket-survivor/internal/config"
	"github.com/yourusername/bracket-survivor/internal/metrics"
	"github.com/yourusername/bracket-survivor/internal/workflow"
)

// Runner is the subset of the workflow the scheduler needs.
type Runner interface {
	Run(ctx context.Context, input workflow.Input) (*workflow.Result, error)
}

// Scheduler runs the daily workflow once at startup and then hourly, in UTC.
// Overlapping ticks are skipped rather than queued: the workflow is
// idempotent per (user, year, date), so a skipped tick loses nothing.
type Scheduler struct {
	cron      *cron.Cron
	runner    Runner
	cfg       config.SurvivorConfig
	log       *logrus.Logger
	mu        sync.Mutex
	runMu     sync.Mutex
	isRunning bool
	jobIDs    []cron.EntryID
	stopWait  time.Duration
}

// New creates a Scheduler for the configured user and tournament.
func New(runner Runner, cfg config.SurvivorConfig, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		runner:   runner,
		cfg:      cfg,
		log:      log,
		jobIDs:   make([]cron.EntryID, 0),
		stopWait: 30 * time.Second,
	}
}

// Start registers the hourly job, fires an immediate run, and starts the
// cron loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	entryID, err := s.cron.AddFunc("@every 1h", s.tick)
	if err != nil {
		return fmt.Errorf("failed to add daily decision job: %w", err)
	}
	s.jobIDs = append(s.jobIDs, entryID)

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("interval", "1h").Info("Survivor scheduler started")

	go s.tick()

	return nil
}

// Stop gracefully stops the scheduler, waiting for an in-flight run.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.stopWait):
		s.log.Warn("Scheduler stop timed out waiting for in-flight run")
	}
	s.isRunning = false
	s.log.Info("Survivor scheduler stopped")

	return nil
}

// IsRunning reports whether the cron loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled tick.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

// tick executes one workflow run for today's UTC date. A tick that arrives
// while a run is still in flight is counted and dropped.
func (s *Scheduler) tick() {
	if !s.runMu.TryLock() {
		metrics.SchedulerTicksSkippedTotal.Inc()
		s.log.Warn("Previous workflow run still in flight, skipping tick")
		return
	}
	defer s.runMu.Unlock()

	timeout := time.Duration(s.cfg.RunTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	input := workflow.Input{
		UserID:         s.cfg.UserID,
		TournamentYear: s.cfg.TournamentYear,
		PickDate:       time.Now().UTC().Format("2006-01-02"),
		RiskMode:       s.cfg.RiskMode,
	}

	result, err := s.runner.Run(ctx, input)
	if err != nil {
		s.log.WithError(err).WithField("pick_date", input.PickDate).Error("Scheduled workflow run failed")
		return
	}

	fields := logrus.Fields{
		"pick_date": input.PickDate,
		"status":    result.Status,
	}
	if result.RecommendedPick != nil {
		fields["team"] = result.RecommendedPick.Team
	}
	s.log.WithFields(fields).Info("Scheduled workflow run finished")
}
