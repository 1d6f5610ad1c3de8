package scheduler

import (
	"context"
	"fmt"

	"coursematch.com/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Job is a unit of background maintenance.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs registered jobs on cron specs.
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]Job
	log  *logger.Logger
}

func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make(map[string]Job),
		log:  log,
	}
}

// Register adds job under spec. An empty spec registers the job for
// on-demand runs only.
func (s *Scheduler) Register(spec string, job Job) error {
	if _, exists := s.jobs[job.Name()]; exists {
		return fmt.Errorf("job %q already registered", job.Name())
	}

	if spec != "" {
		if _, err := s.cron.AddFunc(spec, func() { s.execute(context.Background(), job) }); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.Name(), err)
		}
		s.log.Info("job scheduled", "job", job.Name(), "spec", spec)
	}

	s.jobs[job.Name()] = job
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop halts scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunNow executes the named job synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	return s.execute(ctx, job)
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	s.log.Debug("job starting", "job", job.Name())
	if err := job.Run(ctx); err != nil {
		s.log.Error("job failed", "job", job.Name(), "error", err)
		return err
	}
	s.log.Debug("job finished", "job", job.Name())
	return nil
}
