package scheduler

import "context"

// Job is a unit of work executed by the worker pool. Catch-up jobs are the
// primary implementation; cleanup or digest jobs can plug in the same way.
type Job interface {
	// Execute runs the job. The context carries the pool's timeout and
	// cancellation.
	Execute(ctx context.Context) error

	// AccountID returns the account this job operates on, for logging.
	AccountID() string

	// Description returns a human-readable description of the job.
	Description() string
}
