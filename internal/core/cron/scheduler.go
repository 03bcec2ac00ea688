package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a recurring task. FirstRun, when set, returns the instant of the
// first execution given the current time; nil runs the job on Start.
type Job struct {
	Name     string
	Interval time.Duration
	FirstRun func(now time.Time) time.Time
	Fn       func(ctx context.Context) error
}

type Scheduler struct {
	jobs    []Job
	logger  *slog.Logger
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger: logger,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	s.logger.Info("cron job registered", "name", job.Name, "interval", job.Interval)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	s.logger.Info("cron scheduler started", "job_count", len(s.jobs))
}

func (s *Scheduler) Stop() {
	s.logger.Info("stopping cron scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("cron scheduler stopped")
}

func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	if job.FirstRun != nil {
		now := s.now()
		wait := job.FirstRun(now).Sub(now)
		s.logger.Info("cron job waiting for first run", "name", job.Name, "in", wait.Round(time.Second))
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-s.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}

	s.executeJob(job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(job)
		}
	}
}

func (s *Scheduler) executeJob(job Job) {
	start := time.Now()
	s.logger.Debug("cron job starting", "name", job.Name)

	if err := job.Fn(s.ctx); err != nil {
		s.logger.Error("cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debug("cron job completed", "name", job.Name, "duration", time.Since(start))
}

// RunOnce runs every job once on the caller's goroutine and returns the
// first error, after still attempting the remaining jobs.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	var firstErr error
	for _, job := range jobs {
		if err := job.Fn(ctx); err != nil {
			s.logger.Error("cron job failed", "name", job.Name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// NextMidnight returns the start of the day after now, in now's location.
func NextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// NextMidnightIn is NextMidnight evaluated in loc.
func NextMidnightIn(loc *time.Location) func(now time.Time) time.Time {
	return func(now time.Time) time.Time {
		return NextMidnight(now.In(loc))
	}
}
