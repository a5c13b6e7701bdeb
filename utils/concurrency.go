package utils

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs jobs on a bounded number of goroutines and collects
// their errors. Unlike a bare errgroup, one failing job does not hide the
// others' errors.
type WorkerPool struct {
	group errgroup.Group

	mu   sync.Mutex
	errs []error
}

// NewWorkerPool creates a WorkerPool that runs at most maxWorkers jobs at once.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	wp := &WorkerPool{}
	wp.group.SetLimit(maxWorkers)
	return wp
}

// Submit enqueues a job. It blocks while the pool is saturated.
func (wp *WorkerPool) Submit(job func() error) {
	wp.group.Go(func() error {
		if err := job(); err != nil {
			wp.mu.Lock()
			wp.errs = append(wp.errs, err)
			wp.mu.Unlock()
		}
		return nil
	})
}

// Wait blocks until all submitted jobs have completed and returns the
// errors they reported, in completion order.
func (wp *WorkerPool) Wait() []error {
	_ = wp.group.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	out := make([]error, len(wp.errs))
	copy(out, wp.errs)
	return out
}
