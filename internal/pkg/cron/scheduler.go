package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type jobFunc func(ctx context.Context) error

type job struct {
	name  string
	every time.Duration
	run   jobFunc
}

// Scheduler runs registered jobs on fixed intervals until stopped. Jobs
// needing a calendar schedule guard inside their own func (see
// PayrollJobs.AutoGenerateMonthlyPayroll), so interval ticks are enough.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []job
	started bool
	cancel  context.CancelFunc
	done    sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddJob registers a job. Registration after Start is rejected.
func (s *Scheduler) AddJob(name string, every time.Duration, fn jobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		slog.Warn("Cron job registered after start, ignoring", "name", name)
		return
	}
	s.jobs = append(s.jobs, job{name: name, every: every, run: fn})
	slog.Info("Cron job registered", "name", name, "every", every)
}

// Start launches one goroutine per job. Each job runs immediately, then on
// every tick of its interval.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	for _, j := range s.jobs {
		s.done.Add(1)
		go func(j job) {
			defer s.done.Done()
			s.loop(ctx, j)
		}(j)
	}
	slog.Info("Cron scheduler started", "jobs", len(s.jobs))
}

// Stop cancels all job contexts and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.done.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	ticker := time.NewTicker(j.every)
	defer ticker.Stop()

	execute(ctx, j)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			execute(ctx, j)
		}
	}
}

// execute shields the scheduler from a panicking job: one bad run is logged
// and the schedule keeps ticking.
func execute(ctx context.Context, j job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Cron job panicked", "name", j.name, "panic", r)
		}
	}()

	start := time.Now()
	if err := j.run(ctx); err != nil {
		slog.Error("Cron job failed", "name", j.name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("Cron job completed", "name", j.name, "duration", time.Since(start))
}

// RunOnce executes every registered job immediately and sequentially,
// bypassing the ticker loops. Used by tests.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := make([]job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, j := range jobs {
		execute(ctx, j)
	}
}
