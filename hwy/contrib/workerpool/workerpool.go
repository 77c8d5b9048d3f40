// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for
// row-parallel kernels. A Pool is created once and reused across many
// batches, so per-call goroutine spawning does not dominate the cost of
// small inputs.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ParallelForAtomicBatched(rows, 4, func(start, end int) {
//	    processRows(start, end)
//	})
//
// A panic raised by fn on a worker is recovered and re-raised on the
// calling goroutine once every other chunk of the same call has finished.
package workerpool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan task
	closeOnce  sync.Once
	closed     atomic.Bool
}

// task is one chunk of a parallel call. All tasks of a call share a job.
type task struct {
	fn  func()
	job *job
}

// job tracks completion and the first panic of one parallel call.
type job struct {
	wg        sync.WaitGroup
	panicOnce sync.Once
	panicVal  any
}

func (j *job) run(fn func()) {
	defer j.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			j.panicOnce.Do(func() { j.panicVal = r })
		}
	}()
	fn()
}

// wait blocks until every task finished and re-raises a recovered panic.
func (j *job) wait() {
	j.wg.Wait()
	if j.panicVal != nil {
		panic(fmt.Sprintf("workerpool: worker panicked: %v", j.panicVal))
	}
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan task, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.workC {
		t.job.run(t.fn)
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. Work already submitted completes.
// Calling Close multiple times is safe. Parallel calls made after Close run
// sequentially on the caller.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// sequential reports whether a call over n units of work spread across
// workers should run inline on the caller.
func (p *Pool) sequential(workers int) bool {
	return p.closed.Load() || workers <= 1
}

// ParallelFor executes fn over [0, n) split into one contiguous range per
// worker. Blocks until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	if p.sequential(workers) {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers
	j := &job{}
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		j.wg.Add(1)
		p.workC <- task{fn: func() { fn(start, end) }, job: j}
	}
	j.wait()
}

// ParallelForAtomicBatched executes fn over [0, n) in batches of batchSize
// indices. Workers claim the next batch with an atomic counter, which
// balances load when the cost per index varies. Blocks until all work
// completes.
//
// fn receives (start, end) indices where work should process [start, end).
// A batchSize <= 0 is treated as 1.
func (p *Pool) ParallelForAtomicBatched(n int, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	numBatches := (n + batchSize - 1) / batchSize
	workers := min(p.numWorkers, numBatches)
	if p.sequential(workers) {
		fn(0, n)
		return
	}

	var next atomic.Int64
	j := &job{}
	j.wg.Add(workers)
	for range workers {
		p.workC <- task{
			fn: func() {
				for {
					start := int(next.Add(1)-1) * batchSize
					if start >= n {
						return
					}
					fn(start, min(start+batchSize, n))
				}
			},
			job: j,
		}
	}
	j.wait()
}
