// Package parallel provides parallel processing infrastructure for column operations.
//
// This package implements a worker pool and order-preserving fan-out used by
// the bulk read-only transforms of the table engine: per-column CSV parsing and
// formatting, element-wise Map and rolling window evaluation. Work is only
// scheduled here once it crosses config.ParallelThreshold; each worker reads
// and writes disjoint ranges, so no locking is needed around the data.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"github.com/paveg/tabula/internal/config"
)

const minChunkSize = 256

// WorkerPool manages a pool of goroutines for parallel processing
type WorkerPool struct {
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// NewWorkerPoolFromConfig sizes a pool from cfg.WorkerPoolSize.
func NewWorkerPoolFromConfig(cfg config.Config) *WorkerPool {
	return NewWorkerPool(cfg.Workers())
}

// Workers returns the number of goroutines the pool runs
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}

// ProcessIndexed executes work items in parallel while preserving order
func ProcessIndexed[T, R any](
	wp *WorkerPool,
	items []T,
	worker func(int, T) R,
) []R {
	if len(items) == 0 {
		return nil
	}

	itemCh := make(chan indexedItem[T], len(items))
	resultCh := make(chan indexedResult[R], len(items))

	var wg sync.WaitGroup
	for i := 0; i < wp.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemCh {
				select {
				case <-wp.ctx.Done():
					return
				default:
					result := worker(item.index, item.value)
					resultCh <- indexedResult[R]{
						index:  item.index,
						result: result,
					}
				}
			}
		}()
	}

	go func() {
		defer close(itemCh)
		for i, item := range items {
			select {
			case <-wp.ctx.Done():
				return
			case itemCh <- indexedItem[T]{index: i, value: item}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Collect results and maintain order
	results := make([]R, len(items))
	for result := range resultCh {
		results[result.index] = result.result
	}

	return results
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	wp.cancel()
}

// Range is a half-open span [Start, End) of element positions.
type Range struct {
	Start int
	End   int
}

// Len returns the number of positions in the range
func (r Range) Len() int {
	return r.End - r.Start
}

// Chunks splits n positions into contiguous ranges. A chunkSize of zero
// derives one from the worker count.
func Chunks(n, chunkSize, workers int) []Range {
	if n <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		chunkSize = (n + workers - 1) / workers
		if chunkSize < minChunkSize {
			chunkSize = minChunkSize
		}
	}

	ranges := make([]Range, 0, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges
}

// ForEachRange runs fn over every chunk of [0, n). Below the configured
// threshold the whole span runs on the calling goroutine.
func ForEachRange(cfg config.Config, n int, fn func(Range)) {
	if n <= 0 {
		return
	}
	if !cfg.ShouldParallelize(n) {
		fn(Range{Start: 0, End: n})
		return
	}

	pool := NewWorkerPoolFromConfig(cfg)
	defer pool.Close()

	ProcessIndexed(pool, Chunks(n, cfg.ChunkSize, pool.Workers()), func(_ int, r Range) struct{} {
		fn(r)
		return struct{}{}
	})
}

// indexedItem holds an item with its index
type indexedItem[T any] struct {
	index int
	value T
}

// indexedResult holds a result with its index
type indexedResult[R any] struct {
	index  int
	result R
}
