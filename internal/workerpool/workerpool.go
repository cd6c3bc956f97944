// Package workerpool provides a persistent, reusable set of worker
// goroutines. A Pool is created once and reused across many Run calls, so
// repeated multiplications in a benchmark loop do not pay goroutine spawn
// cost on every call.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for range iterations {
//	    if err := pool.Run(tasks); err != nil {
//	        return err
//	    }
//	}
package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrClosed is returned by Run once Close has been called.
var ErrClosed = errors.New("workerpool: pool is closed")

// Pool is a fixed set of goroutines fed through a channel. Workers are
// spawned by New and exit when Close is called.
type Pool struct {
	numWorkers int
	workC      chan job

	// mu guards closed and keeps Close from closing workC while Run is
	// still sending on it.
	mu     sync.RWMutex
	closed bool
}

// job is one task of a Run call plus the barrier it reports to.
type job struct {
	fn      func()
	index   int
	barrier *sync.WaitGroup
	failed  *failures
}

// failures collects panics raised by the tasks of one Run call.
type failures struct {
	mu   sync.Mutex
	errs []error
}

func (f *failures) add(err error) {
	f.mu.Lock()
	f.errs = append(f.errs, err)
	f.mu.Unlock()
}

// New creates a pool with numWorkers goroutines.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan job, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for j := range p.workC {
		j.run()
	}
}

func (j job) run() {
	defer j.barrier.Done()
	defer func() {
		if r := recover(); r != nil {
			j.failed.add(fmt.Errorf("workerpool: task %d panicked: %v", j.index, r))
		}
	}()
	j.fn()
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Close stops the workers once queued work has drained.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.workC)
}

// Run executes every task on the pool and blocks until all of them have
// returned. Tasks beyond NumWorkers queue until a worker is free.
// Panics inside tasks are recovered and returned joined together; the
// worker that hit the panic keeps serving.
func (p *Pool) Run(tasks []func()) error {
	if len(tasks) == 0 {
		return nil
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}

	var wg sync.WaitGroup
	var failed failures
	wg.Add(len(tasks))
	for i, fn := range tasks {
		p.workC <- job{fn: fn, index: i, barrier: &wg, failed: &failed}
	}
	p.mu.RUnlock()

	wg.Wait()
	return errors.Join(failed.errs...)
}
