package systems

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/modelview/engine/core"
)

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = errors.New("job system is shut down")

// Job is the unit of work executed by the pool.
type Job func(ctx context.Context) (interface{}, error)

// JobTask is a job waiting in the queue together with the future it settles.
type JobTask struct {
	Name   string
	ctx    context.Context
	job    Job
	future *Future
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	mutex    sync.RWMutex
	isClosed bool
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}
	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for task := range js.jobQueue {
				js.run(task)
			}
		}()
	}
}

func (js *JobSystem) run(task JobTask) {
	// Dropped while still queued.
	if err := task.ctx.Err(); err != nil {
		task.future.settle(nil, err)
		return
	}

	value, err := task.job(task.ctx)
	if err != nil {
		core.LogDebug("job %s (%s) failed: %s", task.Name, task.future.RequestID, err.Error())
	}
	task.future.settle(value, err)
}

/**
 * @brief Shuts the job system down, waiting for running jobs to finish.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.isClosed {
		js.mutex.Unlock()
		return nil
	}
	js.isClosed = true
	close(js.jobQueue)
	js.mutex.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution.
 * @param ctx Context handed to the job. Cancelling it drops the job if still queued.
 * @param name A name used in logs.
 * @param generation The generation the returned future is tagged with.
 * @param job The work to execute.
 */
func (js *JobSystem) Submit(ctx context.Context, name string, generation uint64, job Job) (*Future, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.isClosed {
		return nil, ErrJobSystemClosed
	}

	jobCtx, cancel := context.WithCancel(ctx)
	future := newFuture(generation, cancel)
	task := JobTask{
		Name:   name,
		ctx:    jobCtx,
		job:    job,
		future: future,
	}

	select {
	case js.jobQueue <- task:
		return future, nil
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}
}

// Future is the pending result of a submitted job.
type Future struct {
	RequestID  uuid.UUID
	Generation uint64

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	value  interface{}
	err    error
}

func newFuture(generation uint64, cancel context.CancelFunc) *Future {
	return &Future{
		RequestID:  uuid.New(),
		Generation: generation,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

func (f *Future) settle(value interface{}, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		f.cancel()
		close(f.done)
	})
}

// Done is closed once the job has returned.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Poll never blocks. ready is false while the job is still pending.
func (f *Future) Poll() (value interface{}, ready bool, err error) {
	select {
	case <-f.done:
		return f.value, true, f.err
	default:
		return nil, false, nil
	}
}

// Wait blocks until the job returns or ctx ends.
func (f *Future) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel signals the job context. Work that ignores its context keeps running
// and still settles the future.
func (f *Future) Cancel() {
	f.cancel()
}
