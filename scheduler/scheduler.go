/*
Package scheduler drives reconciliation sweeps.

PURPOSE:
  Decides WHEN a full reconciliation sweep runs; the tenure package decides
  WHAT it does. Two guards gate every trigger:
  - Single-flight: a trigger that fires while a run is in progress is
    dropped immediately (not queued, not retried).
  - Monthly dedupe: a persisted "<year>-<monthIndex>" checkpoint marks the
    last calendar month a sweep completed; triggers within the same month
    are no-ops.

TRIGGERS:
  Once immediately on Start (subject to the enablement signal), then on a
  fixed recurring tick (default: 1 hour; a tunable, not a correctness
  property). Stop cancels future ticks; an in-flight run is not aborted,
  it is allowed to finish.

CHECKPOINT:
  Advanced after any completed run, including runs with per-employee
  errors. A fatally-failed run (shared inputs unavailable) leaves the
  checkpoint untouched so the next eligible trigger retries the sweep.

USAGE:
  s := scheduler.New(engine, checkpoints)
  s.Start()
  defer s.Stop()
*/
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/warp/tenure-engine/tenure"
)

// checkpointKey is the key under which the last-run month is persisted.
const checkpointKey = "tenure:last-run"

// =============================================================================
// COLLABORATORS
// =============================================================================

// CheckpointStore is the externally-durable key/value pair used for
// monthly dedupe. Injected explicitly, never referenced ambiently.
type CheckpointStore interface {
	// GetCheckpoint returns the stored value, or "" when none exists.
	GetCheckpoint(ctx context.Context, key string) (string, error)

	SetCheckpoint(ctx context.Context, key, value string) error
}

// Runner is one full reconciliation sweep. Satisfied by
// (*tenure.Engine).ReconcileAll.
type Runner interface {
	ReconcileAll(ctx context.Context) (tenure.RunSummary, error)
}

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler is the single-flight + monthly-dedupe run driver.
type Scheduler struct {
	Runner      Runner
	Checkpoints CheckpointStore

	// CheckInterval is the recurring tick period.
	CheckInterval time.Duration

	// Enabled gates both the startup trigger and each tick. Tied to the
	// surrounding application's session state; nil means always enabled.
	Enabled func() bool

	// Now is injected for deterministic month keys in tests.
	Now func() time.Time

	mu      sync.Mutex
	running bool
	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	started bool
}

// New creates a scheduler with the default hourly tick.
func New(runner Runner, checkpoints CheckpointStore) *Scheduler {
	return &Scheduler{
		Runner:        runner,
		Checkpoints:   checkpoints,
		CheckInterval: 1 * time.Hour,
		Now:           time.Now,
	}
}

// MonthKey returns the dedupe key for a point in time. The month index is
// zero-based, matching the persisted historical format.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month())-1)
}

// Start fires the startup trigger and begins ticking. Safe to call once.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	s.mu.Unlock()

	go s.loop()

	log.Printf("[Scheduler] Started with check interval: %v", s.CheckInterval)
}

// Stop cancels future ticks. An in-flight run finishes on its own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.ticker.Stop()
	close(s.stop)
	// Release before waiting: an in-flight Trigger needs the mutex to
	// clear its running flag.
	s.mu.Unlock()

	s.wg.Wait()
	log.Println("[Scheduler] Stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	// Startup trigger.
	s.Trigger(context.Background())

	for {
		select {
		case <-s.ticker.C:
			s.Trigger(context.Background())
		case <-s.stop:
			return
		}
	}
}

// Trigger attempts one sweep, subject to the enablement, single-flight and
// monthly-dedupe guards. Returns true when a sweep actually ran.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if s.Enabled != nil && !s.Enabled() {
		return false
	}

	monthKey := MonthKey(s.Now())

	s.mu.Lock()
	if s.running {
		// Single-flight: drop, don't queue.
		s.mu.Unlock()
		return false
	}

	last, err := s.Checkpoints.GetCheckpoint(ctx, checkpointKey)
	if err != nil {
		s.mu.Unlock()
		log.Printf("[Scheduler] Error reading checkpoint: %v", err)
		return false
	}
	if last == monthKey {
		s.mu.Unlock()
		return false
	}

	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Printf("[Scheduler] Reconciliation sweep for %s starting", monthKey)

	summary, err := s.Runner.ReconcileAll(ctx)
	if err != nil {
		// Shared inputs unavailable: leave the checkpoint untouched so the
		// next trigger retries the full sweep.
		if errors.Is(err, tenure.ErrBatchFatal) {
			log.Printf("[Scheduler] Sweep aborted: %v", err)
			return false
		}
		log.Printf("[Scheduler] Sweep failed: %v", err)
		return false
	}

	if err := s.Checkpoints.SetCheckpoint(ctx, checkpointKey, monthKey); err != nil {
		log.Printf("[Scheduler] Error persisting checkpoint: %v", err)
	}

	log.Printf("[Scheduler] Completed %s: %d updated, %d errors, %d skipped",
		monthKey, summary.Updated, summary.Errors, summary.Skipped)
	return true
}

// RunNow runs one sweep immediately, bypassing the monthly dedupe but
// honoring the single-flight guard: the running flag is acquired
// atomically before the sweep starts, so a concurrent tick or a second
// manual request is dropped. Returns ran=false when a sweep is already
// in flight.
func (s *Scheduler) RunNow(ctx context.Context) (tenure.RunSummary, bool, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return tenure.RunSummary{}, false, nil
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	monthKey := MonthKey(s.Now())
	log.Printf("[Scheduler] Manual reconciliation sweep for %s starting", monthKey)

	summary, err := s.Runner.ReconcileAll(ctx)
	if err != nil {
		return summary, true, err
	}

	// A completed sweep is a completed sweep: it satisfies the month's
	// dedupe regardless of how it was triggered.
	if err := s.Checkpoints.SetCheckpoint(ctx, checkpointKey, monthKey); err != nil {
		log.Printf("[Scheduler] Error persisting checkpoint: %v", err)
	}

	log.Printf("[Scheduler] Completed %s: %d updated, %d errors, %d skipped",
		monthKey, summary.Updated, summary.Errors, summary.Skipped)
	return summary, true, nil
}

// Running reports whether a sweep is in flight.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastCheckpoint returns the persisted month key, or "" when no sweep has
// completed yet.
func (s *Scheduler) LastCheckpoint(ctx context.Context) (string, error) {
	return s.Checkpoints.GetCheckpoint(ctx, checkpointKey)
}

// NextRunTime returns when the next scheduled check will occur.
func (s *Scheduler) NextRunTime() time.Time {
	return s.Now().Add(s.CheckInterval)
}
