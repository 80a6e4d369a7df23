// Package workerpool runs CPU-bound jobs on a fixed set of goroutines so that
// request handlers can hand work off and wait for it without competing for
// every core at once.
package workerpool

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

var ErrPoolClosed = errors.New("worker pool is closed")

type job struct {
	fn   func()
	done chan struct{}
}

type Pool struct {
	jobs   chan job
	group  *errgroup.Group
	mu     sync.RWMutex
	closed bool
}

// New starts workers goroutines consuming a queue of queueSize pending jobs.
func New(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{
		jobs:  make(chan job, queueSize),
		group: &errgroup.Group{},
	}

	for i := 0; i < workers; i++ {
		p.group.Go(func() error {
			for j := range p.jobs {
				j.fn()
				close(j.done)
			}
			return nil
		})
	}

	return p
}

// Submit queues fn and blocks until it has run. If ctx ends while waiting for
// a queue slot the job is dropped. Once queued it always runs to completion,
// even if Submit has already returned ctx.Err() to a caller that gave up.
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}

	j := job{fn: fn, done: make(chan struct{})}
	select {
	case p.jobs <- j:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	return p.group.Wait()
}
