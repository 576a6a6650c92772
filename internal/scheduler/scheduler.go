package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context)

// Scheduler runs a single job on a fixed interval.
type Scheduler struct {
	Cron     *cron.Cron
	Interval time.Duration
	Ctx      context.Context

	job cron.Job
	wg  sync.WaitGroup
}

// New creates a Scheduler that runs job every interval. A fire that lands
// while the previous run is still in progress is skipped.
func New(ctx context.Context, job Job, interval time.Duration) *Scheduler {
	skipLogger := cron.VerbosePrintfLogger(log.New(os.Stderr, "[WARN] scheduler: ", log.LstdFlags))
	s := &Scheduler{
		Cron:     cron.New(),
		Interval: interval,
		Ctx:      ctx,
	}
	s.job = cron.NewChain(cron.SkipIfStillRunning(skipLogger)).Then(cron.FuncJob(func() {
		job(s.Ctx)
	}))
	return s
}

// Start runs the job once right away and then registers it for every
// interval.
func (s *Scheduler) Start() error {
	if s.Interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %v", s.Interval)
	}
	if _, err := s.Cron.AddJob(fmt.Sprintf("@every %s", s.Interval), s.job); err != nil {
		return fmt.Errorf("register sync job: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()

	s.Cron.Start()
	log.Printf("[INFO] scheduler started, interval %v", s.Interval)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}
