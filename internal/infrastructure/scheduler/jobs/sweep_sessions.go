// Package jobs contains the scheduled background jobs.
package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/grimes-money/money-adventure/internal/domain/session"
	"github.com/grimes-money/money-adventure/pkg/logger"
	"github.com/grimes-money/money-adventure/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SWEEP SESSIONS JOB
// ══════════════════════════════════════════════════════════════════════════════

// SessionGauge receives the session counts of every sweep.
type SessionGauge interface {
	SetActiveSessions(n int)
	AddSwept(n int)
}

// SweepStats describes the last run.
type SweepStats struct {
	RanAt   time.Time `json:"ran_at"`
	Removed int       `json:"removed"`
	Active  int       `json:"active"`
}

// SweepSessionsJob drops expired sessions from stores that do not expire
// keys themselves, then reports the live count.
type SweepSessionsJob struct {
	store  session.Store
	gauge  SessionGauge
	clock  timeutil.Clock
	logger *logger.Logger

	last atomic.Pointer[SweepStats]
}

// NewSweepSessionsJob creates the job. gauge may be nil.
func NewSweepSessionsJob(store session.Store, gauge SessionGauge, clock timeutil.Clock, log *logger.Logger) *SweepSessionsJob {
	if clock == nil {
		clock = timeutil.SystemClock()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SweepSessionsJob{store: store, gauge: gauge, clock: clock, logger: log}
}

// Name implements scheduler.Job.
func (j *SweepSessionsJob) Name() string { return "sweep_sessions" }

// Run implements scheduler.Job.
func (j *SweepSessionsJob) Run(ctx context.Context) error {
	now := j.clock.Now()
	stats := SweepStats{RanAt: now}

	if sw, ok := j.store.(session.Sweeper); ok {
		removed, err := sw.Sweep(ctx, now)
		if err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
		stats.Removed = removed
	}

	active, err := j.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count sessions: %w", err)
	}
	stats.Active = active

	if j.gauge != nil {
		j.gauge.AddSwept(stats.Removed)
		j.gauge.SetActiveSessions(stats.Active)
	}
	j.last.Store(&stats)

	if stats.Removed > 0 {
		j.logger.Info("expired sessions swept", logger.Int("removed", stats.Removed), logger.Int("active", stats.Active))
	}
	return nil
}

// LastStats returns the result of the previous run, or nil.
func (j *SweepSessionsJob) LastStats() *SweepStats {
	return j.last.Load()
}
