package analyzer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_RunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Close()

	var counter atomic.Int64
	const jobs = 100
	for i := 0; i < jobs; i++ {
		if !pool.Submit(func() { counter.Add(1) }) {
			t.Fatal("Expected Submit to accept jobs on an open pool")
		}
	}
	pool.Wait()

	if counter.Load() != jobs {
		t.Errorf("Expected %d jobs to run, got %d", jobs, counter.Load())
	}
}

func TestWorkerPool_Stats(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Close()

	const jobs = 20
	for i := 0; i < jobs; i++ {
		pool.Submit(func() { time.Sleep(time.Millisecond) })
	}
	pool.Wait()

	stats := pool.GetStats()
	if stats.TotalJobs != jobs {
		t.Errorf("Expected %d total jobs, got %d", jobs, stats.TotalJobs)
	}
	if stats.CompletedJobs != jobs {
		t.Errorf("Expected %d completed jobs, got %d", jobs, stats.CompletedJobs)
	}
	if stats.ActiveWorkers != 0 {
		t.Errorf("Expected no active workers after Wait, got %d", stats.ActiveWorkers)
	}
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Expected Submit to reject jobs after Close")
	}
}

func TestWorkerPool_CloseIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	pool.Close()
	pool.Close() // must not panic
}

func TestWorkerPool_StartIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Start()
	defer pool.Close()

	var counter atomic.Int64
	for i := 0; i < 10; i++ {
		pool.Submit(func() { counter.Add(1) })
	}
	pool.Wait()

	if counter.Load() != 10 {
		t.Errorf("Expected 10 jobs to run, got %d", counter.Load())
	}
}

func TestWorkerPool_ConcurrentSubmitAndClose(t *testing.T) {
	// Submitting while another goroutine closes the pool must never panic
	// with a send on a closed channel; late submissions are rejected instead.
	for i := 0; i < 100; i++ {
		pool := NewWorkerPool(2)
		pool.Start()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				pool.Submit(func() {})
			}
		}()
		go func() {
			defer wg.Done()
			pool.Close()
		}()
		wg.Wait()

		if pool.Submit(func() {}) {
			t.Fatal("Expected Submit to reject jobs once the pool is closed")
		}
	}
}

func TestWorkerPool_DefaultsWorkerCount(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.workers <= 0 {
		t.Errorf("Expected a positive default worker count, got %d", pool.workers)
	}
}
