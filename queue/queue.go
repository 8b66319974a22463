// Package queue implements the two background job queues of the
// concurrency model (§10): a generic source-operation queue bounded at
// a single worker, and a library-operation queue that guarantees
// serial execution per source while running distinct sources in
// parallel. Both support cooperative, per-key cancellation so
// deactivateSource/removeSource can cut off outstanding work.
//
// Grounded on the teacher's services/scheduler/scheduler.go job
// registry/timer pattern, generalized from "one named job per
// registration" to an unbounded stream of submitted jobs.
package queue

import "context"

// Job is one unit of work submitted to a queue. Key identifies the
// source the job belongs to: the source queue uses it only for
// cancellation bookkeeping (it runs everything on one worker anyway);
// the library queue uses it to pick the lane a job serializes on.
type Job interface {
	Key() string
	Name() string
	Execute(ctx context.Context) error
}

type entry struct {
	job    Job
	ctx    context.Context
	cancel context.CancelFunc
}
