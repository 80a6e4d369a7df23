package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsJobs(t *testing.T) {
	p := New(4, 8)
	defer p.Close()

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Submit(context.Background(), func() { atomic.AddInt64(&count, 1) }); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&count); got != 50 {
		t.Errorf("expected 50 jobs to run, got %d", got)
	}
}

func TestPool_SubmitWaitsForResult(t *testing.T) {
	p := New(1, 0)
	defer p.Close()

	var result string
	err := p.Submit(context.Background(), func() {
		time.Sleep(10 * time.Millisecond)
		result = "done"
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "done" {
		t.Errorf("expected job result to be visible after Submit, got %q", result)
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const workers = 2
	p := New(workers, 16)
	defer p.Close()

	var running, peak int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Submit(context.Background(), func() {
				n := atomic.AddInt64(&running, 1)
				for {
					old := atomic.LoadInt64(&peak)
					if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&running, -1)
			})
		}()
	}
	wg.Wait()

	if peak > workers {
		t.Errorf("expected at most %d concurrent jobs, saw %d", workers, peak)
	}
}

func TestPool_SubmitCancelledWhileQueueFull(t *testing.T) {
	p := New(1, 0)
	defer p.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = p.Submit(context.Background(), func() {
			close(started)
			<-release
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ran := false
	err := p.Submit(ctx, func() { ran = true })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}

	close(release)
	if ran {
		t.Error("job dropped before queueing must not run")
	}
}

func TestPool_StartedJobRunsToCompletion(t *testing.T) {
	p := New(1, 0)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var finished atomic.Bool

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Submit(ctx, func() {
			close(started)
			time.Sleep(20 * time.Millisecond)
			finished.Store(true)
		})
	}()

	<-started
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !finished.Load() {
		t.Error("expected started job to finish before Close returns")
	}
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := New(1, 1)
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	err := p.Submit(context.Background(), func() {})
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
}
