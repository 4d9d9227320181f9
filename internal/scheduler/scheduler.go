package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/emberfield/village/internal/logger"
)

// Job is a periodic unit of work driven by the scheduler
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler drives the periodic sweeps. Each scheduled job gets its own
// ticker goroutine that invokes the job synchronously, so a job is never
// re-entered while a previous run is still in flight — ticks that land
// during a long run are simply dropped by the ticker.
type Scheduler struct {
	quit chan struct{}
	wg   sync.WaitGroup
}

// New creates a new scheduler
func New() *Scheduler {
	return &Scheduler{
		quit: make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval
func (s *Scheduler) Schedule(interval time.Duration, job Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx := context.Background()
				if err := job.Run(ctx); err != nil {
					logger.FromContext(ctx).Error("Scheduled job failed", "job", job.Name(), "error", err)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs and waits for in-flight runs to finish
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}

// JobFunc adapts a function to the Job interface
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

// Name returns the job name
func (j JobFunc) Name() string { return j.JobName }

// Run invokes the wrapped function
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }
