package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled task
type Job struct {
	Name string
	// Spec is a cron expression with a seconds field, e.g. "0 */5 * * * *"
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler is a Worker running Jobs on cron schedules.
// Runs of the same job never overlap.
type Scheduler struct {
	name   string
	cron   *cron.Cron
	logger *zap.Logger

	mu   sync.Mutex
	jobs []Job
	ctx  context.Context
}

// NewScheduler creates an empty scheduler
func NewScheduler(name string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		name:   name,
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
		ctx:    context.Background(),
	}
}

// Add registers job. The cron expression is validated immediately.
func (s *Scheduler) Add(job Job) error {
	if job.Run == nil {
		return fmt.Errorf("job %q has no run function", job.Name)
	}

	_, err := s.cron.AddFunc(job.Spec, func() { s.runJob(job) })
	if err != nil {
		return fmt.Errorf("error scheduling job %q: %w", job.Name, err)
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()
	return nil
}

// Start implements Worker
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	count := len(s.jobs)
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("scheduler", s.name), zap.Int("jobs", count))
	return nil
}

// Stop implements Worker and waits for running jobs to finish
func (s *Scheduler) Stop() error {
	<-s.cron.Stop().Done()
	return nil
}

// Name implements Worker
func (s *Scheduler) Name() string {
	return s.name
}

// RunNow runs the named job synchronously
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	var found *Job
	for i := range s.jobs {
		if s.jobs[i].Name == name {
			found = &s.jobs[i]
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.runJob(*found)
}

func (s *Scheduler) runJob(job Job) error {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	start := time.Now()
	err := job.Run(ctx)
	if err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", job.Name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return err
	}
	s.logger.Debug("Scheduled job finished", zap.String("job", job.Name), zap.Duration("took", time.Since(start)))
	return nil
}
