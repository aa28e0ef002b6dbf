package scheduler

import (
	"context"
)

// Scheduler defines the interface for long-running background triggers
type Scheduler interface {
	// Start begins the scheduler's main loop
	// This is a blocking call that runs until the context is canceled or Stop is called
	Start(ctx context.Context) error

	// Stop gracefully stops the scheduler
	// This waits for the job in progress to complete or for ctx to expire
	Stop(ctx context.Context) error

	// Name returns the scheduler's name for logging and identification
	Name() string
}
