package tasks

import "time"

// Config tunes the queue's worker pool and retention behaviour. Zero values
// are not filled in here; DefaultConfig carries the defaults and the
// application config overrides them per environment variable.
type Config struct {
	// Workers is the size of the worker pool.
	Workers int

	// MaxRetries caps retry attempts for a failing task.
	MaxRetries int

	// RetryDelay is the backoff between attempts.
	RetryDelay time.Duration

	// TaskTimeout bounds a single task execution.
	TaskTimeout time.Duration

	// ReleaseAfter returns a stuck claimed task to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are swept.
	CleanupInterval time.Duration

	// RetentionDuration is how long completed tasks stay queryable.
	RetentionDuration time.Duration
}

// DefaultConfig returns the queue settings the catalogue ships with.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}
