package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "holidaycal/internal/log"
)

// Runner is the work done on every tick.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

// Scheduler runs a Runner on a cron schedule. Overlapping ticks are
// skipped while a previous run is still in progress.
type Scheduler struct {
	cronEngine *cron.Cron
	runner     Runner
	spec       string

	mu      sync.Mutex
	running bool
}

// NewScheduler returns a scheduler evaluating spec in loc.
func NewScheduler(spec string, loc *time.Location, runner Runner) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cronEngine: cron.New(cron.WithLocation(loc)),
		runner:     runner,
		spec:       spec,
	}
}

// Start registers the job and starts the cron engine. Jobs run with ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cronEngine.AddFunc(s.spec, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("refresh: bad cron spec %q: %w", s.spec, err)
	}
	s.cronEngine.Start()
	appLog.Info("refresh scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the cron engine and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cronEngine.Stop().Done()
	appLog.Info("refresh scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		appLog.Info("refresh skipped, previous run still in progress")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	if err := s.runner.Run(ctx); err != nil {
		appLog.Error("refresh failed", err, "elapsed", time.Since(start).String())
		return
	}
	appLog.Info("refresh completed", "elapsed", time.Since(start).String())
}
