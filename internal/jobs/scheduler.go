// Package jobs runs background work on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of scheduled work. It must honor ctx cancellation.
type Job func(ctx context.Context) error

// Scheduler manages background jobs using cron scheduling
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	mu     sync.Mutex
	jobs   map[string]cron.EntryID
}

// NewScheduler creates a scheduler using the 6-field cron format (with
// seconds). A run is skipped while the previous run of the same job is
// still in progress, and panics are recovered.
func NewScheduler(logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger: logger.Named("cron")}
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(
			cron.SkipIfStillRunning(cl),
			cron.Recover(cl),
		)),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler", zap.Strings("jobs", s.JobNames()))
	s.cron.Start()
}

// Stop stops scheduling; the returned context is done when running jobs finish
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob registers job under name. Each run gets a context bounded by timeout.
// Examples of cronExpr:
//   - "0 0 6 * * *" - every day at 06:00:00
//   - "@every 1h"   - every hour
func (s *Scheduler) AddJob(name string, cronExpr string, timeout time.Duration, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		s.run(name, timeout, job)
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("added scheduled job",
		zap.String("job_name", name),
		zap.String("cron_expr", cronExpr))
	return nil
}

func (s *Scheduler) run(name string, timeout time.Duration, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("scheduled job failed",
			zap.String("job_name", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}
	s.logger.Info("completed scheduled job",
		zap.String("job_name", name),
		zap.Duration("duration", time.Since(start)))
}

// JobNames returns the registered job names, sorted
func (s *Scheduler) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
