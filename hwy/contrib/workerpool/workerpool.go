// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent worker pool for rendering
// independent pieces of an image, such as wide tiles, in parallel. A Pool is
// created once and reused across frames, so no goroutines are spawned per
// call.
//
// Work handed to ForEach is tagged with a slot: a small integer that is never
// used by two goroutines at the same time during one call. Callers index
// per-slot scratch state with it, so a worker can reuse one scratch tile for
// every item it picks up.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	scratch := make([]*fine.Tile, pool.NumWorkers())
//	err := pool.ForEach(len(tiles), func(slot, i int) error {
//	    return render(scratch[slot], tiles[i])
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool. Workers are spawned once at creation and
// reused until Close.
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

// New creates a pool with numWorkers workers, or GOMAXPROCS workers if
// numWorkers <= 0.
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

// NumWorkers returns the number of workers, which bounds the slots passed to
// ForEach.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the pool once pending work completes. Calling Close more
// than once is safe; a closed pool runs work on the calling goroutine.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ForEach calls fn(slot, i) for every i in [0, n), distributing indices to
// workers as they become free. Calls sharing a slot never overlap. After the
// first error no further indices are started, and that error is returned
// once running calls finish.
func (p *Pool) ForEach(n int, fn func(slot, i int) error) error {
	if n <= 0 {
		return nil
	}

	workers := min(p.numWorkers, n)
	if workers == 1 || p.closed.Load() {
		for i := range n {
			if err := fn(0, i); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		next     atomic.Int64
		failed   atomic.Bool
		errOnce  sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	wg.Add(workers)
	for slot := range workers {
		p.workC <- workItem{
			fn: func() {
				for !failed.Load() {
					i := int(next.Add(1)) - 1
					if i >= n {
						return
					}
					if err := fn(slot, i); err != nil {
						errOnce.Do(func() { firstErr = err })
						failed.Store(true)
					}
				}
			},
			barrier: &wg,
		}
	}
	wg.Wait()
	return firstErr
}

// ParallelFor splits [0, n) into one contiguous range per worker and calls
// fn(start, end) for each. Blocks until all ranges are done.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		p.workC <- workItem{
			fn:      func() { fn(start, end) },
			barrier: &wg,
		}
	}
	wg.Wait()
}
