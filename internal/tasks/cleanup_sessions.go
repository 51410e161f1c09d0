package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SessionPurger deletes session rows whose refresh window has closed.
type SessionPurger interface {
	PurgeExpiredSessions() (int64, error)
}

// PurgeSessionsTask removes sessions that can no longer be refreshed.
type PurgeSessionsTask struct{}

// Config returns the queue configuration for session purge tasks.
func (t PurgeSessionsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_sessions",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeSessionsProcessor creates a processor function for PurgeSessionsTask.
func PurgeSessionsProcessor(purger SessionPurger) backlite.QueueProcessor[PurgeSessionsTask] {
	return func(ctx context.Context, task PurgeSessionsTask) error {
		if purger == nil {
			return fmt.Errorf("session purger not configured")
		}

		deleted, err := purger.PurgeExpiredSessions()
		if err != nil {
			return fmt.Errorf("purge sessions: %w", err)
		}

		log.Printf("[TASK] Purged %d expired sessions", deleted)
		return nil
	}
}

// NewPurgeSessionsQueue creates a backlite queue for session purge tasks.
func NewPurgeSessionsQueue(purger SessionPurger) backlite.Queue {
	return backlite.NewQueue(PurgeSessionsProcessor(purger))
}
