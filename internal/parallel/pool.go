// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is the shared background execution pool for shader resolution.
//
// Each worker owns a buffered queue. Workers pull from their own queue first
// and steal from the others when it is empty, so a slow lookup on one worker
// does not hold back tasks queued behind it.
//
// Submission never blocks: TrySubmit either queues the task or reports that
// it could not, and the caller decides where to run it instead.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	queueSize  int
	workQueues []chan func()

	// done signals workers to drain their queues and exit.
	done chan struct{}
	wg   sync.WaitGroup

	// mu orders TrySubmit against Close so that no task is queued after the
	// workers have drained and exited.
	mu      sync.RWMutex
	running atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers and
// per-worker queue capacity. workers <= 0 selects GOMAXPROCS; queueSize <= 0
// selects four slots per worker with a floor of 8.
// The pool starts immediately.
func NewWorkerPool(workers, queueSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if queueSize <= 0 {
		queueSize = workers * 4
		if queueSize < 8 {
			queueSize = 8
		}
	}

	p := &WorkerPool{
		workers:    workers,
		queueSize:  queueSize,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drainQueue(own)
			return
		case task := <-own:
			run(task)
		default:
			if stolen := p.steal(id); stolen != nil {
				run(stolen)
				continue
			}
			select {
			case <-p.done:
				p.drainQueue(own)
				return
			case task := <-own:
				run(task)
			}
		}
	}
}

func run(task func()) {
	if task != nil {
		task()
	}
}

// drainQueue runs everything left in queue. Called once done is closed.
func (p *WorkerPool) drainQueue(queue chan func()) {
	for {
		select {
		case task := <-queue:
			run(task)
		default:
			return
		}
	}
}

// steal takes one task from another worker's queue, or returns nil.
func (p *WorkerPool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case task := <-p.workQueues[i]:
			return task
		default:
		}
	}
	return nil
}

// TrySubmit queues fn on the least loaded worker without blocking.
// It returns false if fn is nil, the pool is closed, or every queue is full;
// in that case fn has not been queued and will not run on the pool.
func (p *WorkerPool) TrySubmit(fn func()) bool {
	if fn == nil {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running.Load() {
		return false
	}

	first := p.shortestQueue()
	for n := range p.workers {
		i := (first + n) % p.workers
		select {
		case p.workQueues[i] <- fn:
			return true
		default:
		}
	}
	return false
}

func (p *WorkerPool) shortestQueue() int {
	minLen := len(p.workQueues[0])
	minIdx := 0
	for i := 1; i < p.workers; i++ {
		if n := len(p.workQueues[i]); n < minLen {
			minLen = n
			minIdx = i
		}
	}
	return minIdx
}

// Close stops accepting work, runs every task already queued, and waits for
// the workers to exit. Close is safe to call multiple times but must not
// be called from a task running on the pool.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// QueueSize returns the capacity of each worker's queue.
func (p *WorkerPool) QueueSize() int {
	return p.queueSize
}

// IsRunning reports whether the pool is accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// QueuedWork returns the number of tasks currently queued.
// The value is approximate while workers are active.
func (p *WorkerPool) QueuedWork() int {
	total := 0
	for _, q := range p.workQueues {
		total += len(q)
	}
	return total
}
