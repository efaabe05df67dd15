package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ChangeLogCleaner provides the ability to prune old change log entries.
type ChangeLogCleaner interface {
	DeleteOldChangedEntries(retention time.Duration) (int64, error)
}

// CleanupChangeLogTask prunes change entries older than the configured
// retention period. Creation entries are never removed.
type CleanupChangeLogTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for change log cleanup tasks.
func (t CleanupChangeLogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_changelog",
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

// CleanupChangeLogProcessor creates a processor function for CleanupChangeLogTask.
func CleanupChangeLogProcessor(cleaner ChangeLogCleaner) backlite.QueueProcessor[CleanupChangeLogTask] {
	return func(ctx context.Context, task CleanupChangeLogTask) error {
		if cleaner == nil {
			return fmt.Errorf("change log cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 365
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOldChangedEntries(retention)
		if err != nil {
			return fmt.Errorf("cleanup change log: %w", err)
		}

		log.Printf("[TASK] Pruned %d change log entries older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupChangeLogQueue creates a backlite queue for change log cleanup tasks.
func NewCleanupChangeLogQueue(cleaner ChangeLogCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupChangeLogProcessor(cleaner))
}
