// Package workerpool runs background tasks on a fixed set of goroutines.
//
//	pool := workerpool.New(4, nil)
//	defer pool.Shutdown()
//
//	pool.Go(task)
package workerpool

import "sync"

// PanicHandler receives the value of a recovered task panic.
type PanicHandler func(recovered any)

type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	onPanic PanicHandler
	spill   sync.WaitGroup
}

// New starts size workers with a queue of 2×size. onPanic may be nil.
func New(size int, onPanic PanicHandler) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		tasks:   make(chan func(), size*2),
		onPanic: onPanic,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Go runs task on the pool, or on a detached goroutine when the queue is
// full, so the caller never blocks and the task is never dropped. Detached
// tasks are still awaited by Shutdown. It returns false only after Shutdown.
func (p *Pool) Go(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}
	select {
	case p.tasks <- task:
	default:
		p.spill.Add(1)
		go func() {
			defer p.spill.Done()
			p.run(task)
		}()
	}
	return true
}

// Shutdown stops accepting tasks and waits for queued, running and
// detached tasks to finish. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()

		p.wg.Wait()
		p.spill.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

// run executes task and keeps a panic from killing the worker.
func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(r)
		}
	}()
	task()
}
