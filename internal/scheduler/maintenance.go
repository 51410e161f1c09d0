// Package scheduler runs the periodic maintenance jobs: purging expired
// sessions and trimming the auth audit trail. The jobs themselves execute on
// the task queue; cron only enqueues them.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/recipeshare/server/internal/tasks"
)

// MaintenanceScheduler enqueues cleanup tasks on a cron schedule.
type MaintenanceScheduler struct {
	taskClient    *tasks.Client
	schedule      string
	retentionDays int

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewMaintenanceScheduler creates a scheduler. schedule is standard 5-field
// cron syntax; retentionDays bounds the audit trail.
func NewMaintenanceScheduler(taskClient *tasks.Client, schedule string, retentionDays int) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		taskClient:    taskClient,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the schedule. Safe to call once.
func (s *MaintenanceScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.enqueue)
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Maintenance scheduler started with schedule '%s'", s.schedule)
	return nil
}

// Stop halts the schedule. In-flight tasks finish on the task queue.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	s.cron.Stop()
	s.isRunning = false
	log.Println("Maintenance scheduler stopped")
}

func (s *MaintenanceScheduler) enqueue() {
	if _, err := s.taskClient.Add(tasks.PurgeSessionsTask{}).Save(); err != nil {
		log.Printf("Failed to enqueue session purge: %v", err)
	}
	if _, err := s.taskClient.Add(tasks.CleanupAuthEventsTask{RetentionDays: s.retentionDays}).Save(); err != nil {
		log.Printf("Failed to enqueue auth event cleanup: %v", err)
	}
}
