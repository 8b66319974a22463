package queue

import (
	"context"
	"sync"

	"mediaimport/importlog"
)

// SourceQueue runs registration/activation/readiness jobs on a single
// worker, so submission order across all sources is execution order.
// Cancel cuts off every queued or running job for a given source key.
type SourceQueue struct {
	mu      sync.Mutex
	pending map[string][]*entry

	jobs chan *entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSourceQueue constructs a SourceQueue; call Start before Submit.
func NewSourceQueue() *SourceQueue {
	ctx, cancel := context.WithCancel(context.Background())
	return &SourceQueue{
		pending: make(map[string][]*entry),
		jobs:    make(chan *entry, 256),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the single worker goroutine.
func (q *SourceQueue) Start() {
	q.wg.Add(1)
	go q.run()
}

// Stop cancels all outstanding jobs and waits for the worker to drain.
func (q *SourceQueue) Stop() {
	q.cancel()
	close(q.jobs)
	q.wg.Wait()
}

// Submit enqueues job for execution by the single worker.
func (q *SourceQueue) Submit(job Job) {
	ctx, cancel := context.WithCancel(q.ctx)
	e := &entry{job: job, ctx: ctx, cancel: cancel}

	q.mu.Lock()
	q.pending[job.Key()] = append(q.pending[job.Key()], e)
	q.mu.Unlock()

	select {
	case q.jobs <- e:
	case <-q.ctx.Done():
		cancel()
	}
}

// Cancel cancels every job queued or running under key.
func (q *SourceQueue) Cancel(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.pending[key] {
		e.cancel()
	}
	delete(q.pending, key)
}

func (q *SourceQueue) run() {
	defer q.wg.Done()
	log := importlog.FromContext(context.Background())

	for e := range q.jobs {
		if e.ctx.Err() != nil {
			q.forget(e)
			continue
		}
		if err := e.job.Execute(e.ctx); err != nil {
			log.Warn().Err(err).Str("job", e.job.Name()).Str("source", e.job.Key()).
				Msg("source queue job failed")
		}
		e.cancel()
		q.forget(e)
	}
}

func (q *SourceQueue) forget(e *entry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	list := q.pending[e.job.Key()]
	for i, other := range list {
		if other == e {
			q.pending[e.job.Key()] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(q.pending[e.job.Key()]) == 0 {
		delete(q.pending, e.job.Key())
	}
}
