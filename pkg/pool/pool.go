package pool

import (
	"errors"
	"sync"
)

// WorkerPool runs submitted tasks on a fixed number of goroutines and
// collects their errors.
type WorkerPool struct {
	tasks chan func() error
	wg    sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// New creates a new worker pool with a specified number of workers.
// numWorkers below one is treated as one.
func New(numWorkers int, taskQueueSize int) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if taskQueueSize < 0 {
		taskQueueSize = 0
	}
	p := &WorkerPool{
		tasks: make(chan func() error, taskQueueSize),
	}

	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}

	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		if err := task(); err != nil {
			p.mu.Lock()
			p.errs = append(p.errs, err)
			p.mu.Unlock()
		}
	}
}

// Submit adds a task to the worker pool. It blocks while the queue is full.
func (p *WorkerPool) Submit(task func() error) {
	p.tasks <- task
}

// Stop waits for all submitted tasks to finish, stops the workers and
// returns the joined task errors.
func (p *WorkerPool) Stop() error {
	close(p.tasks)
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}
