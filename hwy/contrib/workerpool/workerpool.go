// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for the
// encoder's per-frame passes. A Pool is created once per process and reused
// for every frame: colour conversion runs row batches on it, the strategy
// planner runs one task per superblock.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for _, frame := range frames {
//	    pool.ParallelForWorker(numSuperblocks,
//	        func(workers int) { scratch = make([]arena, workers) },
//	        func(task, worker int) { plan(task, &scratch[worker]) })
//	}
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
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
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// workersFor returns how many workers to use for n items, or 1 when the
// pool is closed and the work must run inline.
func (p *Pool) workersFor(n int) int {
	if p == nil || p.closed.Load() {
		return 1
	}
	return max(1, min(p.numWorkers, n))
}

// run submits one item per worker index and waits for all of them.
func (p *Pool) run(workers int, body func(worker int)) {
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		p.workC <- workItem{
			fn:      func() { body(w) },
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelFor executes fn over [0, n) split into one contiguous range per
// worker. Blocks until all work completes.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := p.workersFor(n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers
	p.run(workers, func(w int) {
		start := w * chunkSize
		if start >= n {
			return
		}
		fn(start, min(start+chunkSize, n))
	})
}

// ParallelForAtomic executes fn for each index in [0, n), handing indices
// out through an atomic counter so uneven items balance across workers.
// Blocks until all work completes.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	p.ParallelForWorker(n, nil, func(task, _ int) { fn(task) })
}

// ParallelForWorker executes fn for each task in [0, n) like
// ParallelForAtomic, and also passes the index of the worker running it.
// Worker indices are dense in [0, workers). If init is not nil it is called
// once, before any task, with the number of workers that will run; callers
// use it to size per-worker scratch. Blocks until all work completes.
func (p *Pool) ParallelForWorker(n int, init func(workers int), fn func(task, worker int)) {
	if n <= 0 {
		return
	}
	workers := p.workersFor(n)
	if init != nil {
		init(workers)
	}
	if workers == 1 {
		for i := range n {
			fn(i, 0)
		}
		return
	}

	var next atomic.Int64
	p.run(workers, func(w int) {
		for {
			task := int(next.Add(1)) - 1
			if task >= n {
				return
			}
			fn(task, w)
		}
	})
}

// ParallelForAtomicBatched executes fn for batches of batchSize indices using
// atomic work stealing. The last batch may be short. Image passes use it with
// a batch of one block row so each call owns whole 8-pixel stripes.
func (p *Pool) ParallelForAtomicBatched(n int, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	numBatches := (n + batchSize - 1) / batchSize
	p.ParallelForAtomic(numBatches, func(batch int) {
		start := batch * batchSize
		fn(start, min(start+batchSize, n))
	})
}
