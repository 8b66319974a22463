package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingJob struct {
	key     string
	name    string
	started chan struct{}
	release chan struct{}
	ran     *bool
	mu      *sync.Mutex
}

func newRecordingJob(key, name string) *recordingJob {
	ran := false
	return &recordingJob{
		key:     key,
		name:    name,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		ran:     &ran,
		mu:      &sync.Mutex{},
	}
}

func (j *recordingJob) Key() string  { return j.key }
func (j *recordingJob) Name() string { return j.name }
func (j *recordingJob) Execute(ctx context.Context) error {
	select {
	case j.started <- struct{}{}:
	default:
	}
	select {
	case <-j.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	j.mu.Lock()
	*j.ran = true
	j.mu.Unlock()
	return nil
}

func (j *recordingJob) hasRun() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return *j.ran
}

func TestSourceQueue_SingleWorkerSerializesAcrossKeys(t *testing.T) {
	q := NewSourceQueue()
	q.Start()
	defer q.Stop()

	a := newRecordingJob("src-A", "register-a")
	b := newRecordingJob("src-B", "register-b")
	q.Submit(a)
	q.Submit(b)

	<-a.started
	select {
	case <-b.started:
		t.Fatal("b started while a still held the single worker")
	case <-time.After(20 * time.Millisecond):
	}
	close(a.release)
	close(b.release)

	require.Eventually(t, a.hasRun, time.Second, time.Millisecond)
	require.Eventually(t, b.hasRun, time.Second, time.Millisecond)
}

func TestSourceQueue_CancelStopsQueuedJob(t *testing.T) {
	q := NewSourceQueue()
	q.Start()
	defer q.Stop()

	blocker := newRecordingJob("src-A", "blocker")
	queued := newRecordingJob("src-A", "queued")

	q.Submit(blocker)
	<-blocker.started // worker is now parked on blocker.release

	q.Submit(queued)
	q.Cancel("src-A") // cancels both blocker's ctx and queued before it runs

	close(blocker.release)
	time.Sleep(20 * time.Millisecond)

	assert.False(t, queued.hasRun(), "cancelled job must never execute")
}

func TestLibraryQueue_ParallelAcrossSourcesSerialWithin(t *testing.T) {
	q := NewLibraryQueue()
	defer q.Stop()

	a1 := newRecordingJob("src-A", "a1")
	a2 := newRecordingJob("src-A", "a2")
	b1 := newRecordingJob("src-B", "b1")

	q.Submit(a1)
	q.Submit(a2)
	q.Submit(b1)

	<-a1.started
	<-b1.started // B's lane makes progress while A's first job is still blocked

	select {
	case <-a2.started:
		t.Fatal("a2 must not start before a1 finishes")
	case <-time.After(20 * time.Millisecond):
	}

	close(a1.release)
	require.Eventually(t, a1.hasRun, time.Second, time.Millisecond)
	<-a2.started
	close(a2.release)
	close(b1.release)

	require.Eventually(t, a2.hasRun, time.Second, time.Millisecond)
	require.Eventually(t, b1.hasRun, time.Second, time.Millisecond)
}

func TestLibraryQueue_CancelOnlyAffectsItsOwnLane(t *testing.T) {
	q := NewLibraryQueue()
	defer q.Stop()

	a1 := newRecordingJob("src-A", "a1")
	a2 := newRecordingJob("src-A", "a2")
	b1 := newRecordingJob("src-B", "b1")
	close(b1.release)

	q.Submit(a1)
	<-a1.started
	q.Submit(a2) // queued behind a1, never gets a chance to start
	q.Submit(b1)

	q.Cancel("src-A") // cancels a1's running ctx and a2's queued ctx; src-B untouched

	time.Sleep(20 * time.Millisecond)
	assert.False(t, a2.hasRun(), "cancelled queued job for src-A must not run")

	require.Eventually(t, b1.hasRun, time.Second, time.Millisecond)
}
