// Package scheduler runs periodic background jobs on gocron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/grimes-money/money-adventure/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job is one unit of periodic work.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job. The context is cancelled when the scheduler stops
	// or the job timeout elapses.
	Run(ctx context.Context) error
}

// JobResult describes one execution.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the Scheduler.
type Config struct {
	// JobTimeout bounds a single run. Zero means no limit.
	JobTimeout time.Duration

	Location *time.Location
	Logger   *logger.Logger
}

// Scheduler wraps a gocron scheduler with logging and run history.
type Scheduler struct {
	cron       gocron.Scheduler
	jobTimeout time.Duration
	logger     *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	names    map[string]struct{}
	lastRuns map[string]JobResult
}

// New creates a stopped scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	cron, err := gocron.NewScheduler(gocron.WithLocation(cfg.Location))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:       cron,
		jobTimeout: cfg.JobTimeout,
		logger:     cfg.Logger.With(logger.Component("scheduler")),
		ctx:        ctx,
		cancel:     cancel,
		names:      make(map[string]struct{}),
		lastRuns:   make(map[string]JobResult),
	}, nil
}

// Every registers job to run at a fixed interval. A run that is still going
// when the next one is due makes the next one wait.
func (s *Scheduler) Every(interval time.Duration, job Job) error {
	if job == nil {
		return ErrNilJob
	}
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, name)
	}

	_, err := s.cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.run(job) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeWait),
	)
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	s.names[name] = struct{}{}

	s.logger.Info("job registered", logger.String("job", name), logger.Duration("interval", interval))
	return nil
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", logger.Int("jobs_count", len(s.names)))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() error {
	s.cancel()
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	s.logger.Info("scheduler stopped")
	return nil
}

// RunNow executes job once on the caller's goroutine and records the result.
func (s *Scheduler) RunNow(job Job) JobResult {
	return s.run(job)
}

// LastRuns returns the most recent result of every job that has run.
func (s *Scheduler) LastRuns() map[string]JobResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]JobResult, len(s.lastRuns))
	for k, v := range s.lastRuns {
		out[k] = v
	}
	return out
}

func (s *Scheduler) run(job Job) JobResult {
	ctx := s.ctx
	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}

	name := job.Name()
	start := time.Now()
	err := safeRun(ctx, job)
	result := JobResult{
		JobName:   name,
		StartedAt: start,
		Duration:  time.Since(start),
		Success:   err == nil,
	}

	if err != nil {
		result.Error = err.Error()
		s.logger.Error("job failed", logger.String("job", name), logger.Latency(result.Duration), logger.Err(err))
	} else {
		s.logger.Debug("job completed", logger.String("job", name), logger.Latency(result.Duration))
	}

	s.mu.Lock()
	s.lastRuns[name] = result
	s.mu.Unlock()
	return result
}

func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrJobPanic, r)
		}
	}()
	return job.Run(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrNilJob           = errors.New("job cannot be nil")
	ErrInvalidInterval  = errors.New("interval must be positive")
	ErrJobAlreadyExists = errors.New("job already exists")
	ErrJobPanic         = errors.New("job panicked")
)
