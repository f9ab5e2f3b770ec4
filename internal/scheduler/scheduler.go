package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"TornPilot/internal/api"
	"TornPilot/internal/executor"
	"TornPilot/internal/model"
	"TornPilot/internal/policy"
	"TornPilot/internal/recorder"
	"TornPilot/internal/status"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the poll → decide → execute cycle. Cycles are serialized:
// a tick that fires while a cycle is still running is delayed, not dropped
// and not run concurrently.
type Scheduler struct {
	Cron     *cron.Cron
	Fetcher  api.Fetcher
	Policy   *policy.Engine
	Executor executor.Executor
	Recorder recorder.Recorder
	Ctx      context.Context

	education bool

	mu       sync.Mutex
	snapshot *model.Snapshot
	loggedIn bool
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, fetcher api.Fetcher, pol *policy.Engine, exec executor.Executor, rec recorder.Recorder, education bool) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithChain(cron.DelayIfStillRunning(cron.DefaultLogger))),
		Fetcher:   fetcher,
		Policy:    pol,
		Executor:  exec,
		Recorder:  rec,
		Ctx:       ctx,
		education: education,
	}
}

// Register schedules the poll cycle at the given interval.
func (s *Scheduler) Register(pollInterval time.Duration) error {
	if _, err := s.Cron.AddFunc(fmt.Sprintf("@every %s", pollInterval), s.runCycle); err != nil {
		return fmt.Errorf("register poll cycle: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and releases the executor.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	if err := s.Executor.Close(); err != nil {
		log.Printf("[ERROR] close executor: %v", err)
	}
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one cycle immediately (startup pass / manual trigger).
func (s *Scheduler) RunNow() {
	s.runCycle()
}

// Snapshot returns the last successfully built snapshot, which a failed
// build leaves untouched.
func (s *Scheduler) Snapshot() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// runCycle is one full Executing pass. Every failure inside it degrades at
// its own scope: a snapshot failure skips the cycle, a category failure skips
// that category, an executor failure skips that decision.
func (s *Scheduler) runCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Ctx.Err() != nil {
		return
	}

	snap, err := status.Build(s.Ctx, s.Fetcher, s.education)
	if err != nil {
		log.Printf("[ERROR] status update failed: %v", err)
		return
	}
	s.snapshot = snap
	log.Printf("[INFO] status update\n%s", status.Report(snap))

	decisions := s.Policy.Evaluate(s.Ctx, snap)

	if err := s.Recorder.RecordCycle(cycleRecord(snap, len(decisions))); err != nil {
		log.Printf("[ERROR] record cycle: %v", err)
	}

	for _, d := range decisions {
		log.Printf("[INFO] decision: %s -> %s (%s)", d.Category, d.TargetID, d.Rationale)
		execErr := s.execute(d)
		if execErr != nil {
			log.Printf("[ERROR] perform %s action: %v", d.Category, execErr)
		}
		rec := &recorder.ActionRecord{
			Category:  string(d.Category),
			TargetID:  d.TargetID,
			Rationale: d.Rationale,
			Success:   execErr == nil,
		}
		if execErr != nil {
			rec.Error = execErr.Error()
		}
		if err := s.Recorder.RecordAction(rec); err != nil {
			log.Printf("[ERROR] record action: %v", err)
		}
	}
}

// execute logs in on first need, then performs the decision.
func (s *Scheduler) execute(d model.Decision) error {
	if !s.loggedIn {
		if err := s.Executor.Login(s.Ctx); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		s.loggedIn = true
	}
	return s.Executor.Perform(s.Ctx, d.Category, d.TargetID)
}

func cycleRecord(snap *model.Snapshot, decisions int) *recorder.CycleRecord {
	rec := &recorder.CycleRecord{
		PlayerState: snap.Status.State,
		Decisions:   decisions,
	}
	if snap.Bars != nil {
		rec.Energy, rec.EnergyMax = snap.Bars.Energy.Current, snap.Bars.Energy.Maximum
		rec.Nerve, rec.NerveMax = snap.Bars.Nerve.Current, snap.Bars.Nerve.Maximum
		rec.Happy, rec.HappyMax = snap.Bars.Happy.Current, snap.Bars.Happy.Maximum
		rec.Life, rec.LifeMax = snap.Bars.Life.Current, snap.Bars.Life.Maximum
	}
	return rec
}
