package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// CleanupEnqueuer queues one orphan taxonomy sweep. *tasks.Client satisfies it.
type CleanupEnqueuer interface {
	EnqueueOrphanTaxonomyCleanup(ctx context.Context) (string, error)
}

// OrphanCleanupScheduler periodically enqueues the orphan author/genre sweep.
// The sweep itself runs on the task queue, so a slow database never blocks
// the cron goroutine.
type OrphanCleanupScheduler struct {
	queue    CleanupEnqueuer
	schedule string
	enabled  bool

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewOrphanCleanupScheduler creates a new scheduler instance
func NewOrphanCleanupScheduler(queue CleanupEnqueuer, schedule string, enabled bool) *OrphanCleanupScheduler {
	return &OrphanCleanupScheduler{
		queue:    queue,
		schedule: schedule,
		enabled:  enabled,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler if cleanup is enabled
func (s *OrphanCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		log.Printf("[SCHEDULER] Orphan cleanup: disabled")
		return nil
	}

	if s.queue == nil {
		log.Printf("[SCHEDULER] Orphan cleanup: task queue not available, skipping")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	entryID, err := s.cron.AddFunc(s.schedule, func() { s.enqueue(runCtx) })
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.entryID = entryID
	s.cancelFunc = cancel

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule, time.Now())
	log.Printf("[SCHEDULER] Orphan cleanup: started with schedule '%s' (%s). Next run: %v",
		s.schedule,
		GetCronDescription(s.schedule),
		nextRun)

	// Monitor for context cancellation
	go func(done <-chan struct{}) {
		<-done
		s.Stop()
	}(runCtx.Done())

	return nil
}

// Stop gracefully stops the scheduler
func (s *OrphanCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	stopped := s.cron.Stop()
	<-stopped.Done()

	s.cron.Remove(s.entryID)
	s.cancelFunc()
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("[SCHEDULER] Orphan cleanup: stopped")
}

// RunNow enqueues a sweep immediately, independent of the schedule.
func (s *OrphanCleanupScheduler) RunNow(ctx context.Context) (string, error) {
	if s.queue == nil {
		return "", fmt.Errorf("task queue not available")
	}
	return s.queue.EnqueueOrphanTaxonomyCleanup(ctx)
}

// IsRunning returns whether the scheduler is active
func (s *OrphanCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will be enqueued
func (s *OrphanCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// enqueue runs on the cron goroutine and must not take s.mu, since Stop
// holds it while waiting for running jobs.
func (s *OrphanCleanupScheduler) enqueue(ctx context.Context) {
	id, err := s.queue.EnqueueOrphanTaxonomyCleanup(ctx)
	if err != nil {
		log.Printf("[SCHEDULER] Orphan cleanup: failed to enqueue: %v", err)
		return
	}
	log.Printf("[SCHEDULER] Orphan cleanup: enqueued task %s", id)
}
