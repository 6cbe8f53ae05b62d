package sim

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// JobStatus is the lifecycle state of a submitted job.
type JobStatus string

const (
	StatusCreated JobStatus = "CREATED"
	StatusQueued  JobStatus = "QUEUED"
	StatusRunning JobStatus = "RUNNING"
	StatusDone    JobStatus = "DONE"
	StatusError   JobStatus = "ERROR"
)

// WorkerPool executes job bodies on a bounded set of goroutines. Submission
// blocks once the queue buffer fills, which backpressures callers instead of
// growing unbounded. There is no cancellation: a submitted task always runs
// to completion.
type WorkerPool struct {
	tasks chan func()
	wg    sync.WaitGroup
}

// NewWorkerPool starts a pool with the given number of workers.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = 2
	}
	p := &WorkerPool{tasks: make(chan func(), 64)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

// Submit enqueues a task for execution.
func (p *WorkerPool) Submit(task func()) {
	p.tasks <- task
}

// Close stops accepting tasks and waits for in-flight tasks to finish.
func (p *WorkerPool) Close() {
	close(p.tasks)
	p.wg.Wait()
}

// Job is the asynchronous execution wrapper around one batch of circuits.
// Exactly one execution may be in flight per job: Submit on an
// already-submitted job is an error, never silently ignored.
//
// Status never blocks; Result blocks the calling goroutine until the worker
// completes. Engine failures are reported through the terminal ERROR state
// and returned from Result, not raised at the submitter.
type Job struct {
	id   string
	pool *WorkerPool
	body func() (*Result, error)

	mu     sync.Mutex
	status JobStatus
	result *Result
	err    error
	done   chan struct{}
}

func newJob(id string, pool *WorkerPool, body func() (*Result, error)) *Job {
	return &Job{
		id:     id,
		pool:   pool,
		body:   body,
		status: StatusCreated,
		done:   make(chan struct{}),
	}
}

// ID returns the unique job identifier.
func (j *Job) ID() string { return j.id }

// Submit dispatches the job body onto the worker pool. Returns ErrJobState
// if the job was already submitted.
func (j *Job) Submit() error {
	j.mu.Lock()
	if j.status != StatusCreated {
		j.mu.Unlock()
		return stageErrorf(StageJob, ErrJobState, "job %s already submitted", j.id)
	}
	j.status = StatusQueued
	j.mu.Unlock()

	j.pool.Submit(func() {
		j.setStatus(StatusRunning)
		result, err := j.body()

		j.mu.Lock()
		if err != nil {
			j.status = StatusError
			j.err = err
			logrus.Errorf("job %s failed: %v", j.id, err)
		} else {
			j.status = StatusDone
			j.result = result
		}
		j.mu.Unlock()
		close(j.done)
	})
	return nil
}

func (j *Job) setStatus(s JobStatus) {
	j.mu.Lock()
	j.status = s
	j.mu.Unlock()
}

// Status reports the current lifecycle state without blocking.
func (j *Job) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Result blocks until the job reaches a terminal state, then returns the
// result record or the captured failure.
func (j *Job) Result() (*Result, error) {
	<-j.done
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.err
}
