package parallel_test

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	pool := parallel.NewWorkerPool(0)
	defer pool.Close()
	assert.Equal(t, runtime.NumCPU(), pool.Workers())

	pool2 := parallel.NewWorkerPool(4)
	defer pool2.Close()
	assert.Equal(t, 4, pool2.Workers())

	pool3 := parallel.NewWorkerPool(-1)
	defer pool3.Close()
	assert.Equal(t, runtime.NumCPU(), pool3.Workers())

	cfg := config.NewConfig()
	cfg.WorkerPoolSize = 3
	pool4 := parallel.NewWorkerPoolFromConfig(cfg)
	defer pool4.Close()
	assert.Equal(t, 3, pool4.Workers())
}

func TestProcessIndexed(t *testing.T) {
	pool := parallel.NewWorkerPool(2)
	defer pool.Close()

	input := []string{"a", "b", "c", "d"}

	results := parallel.ProcessIndexed(pool, input, func(index int, value string) string {
		return value + string(rune('0'+index))
	})

	expected := []string{"a0", "b1", "c2", "d3"}
	assert.Equal(t, expected, results)
}

func TestProcessIndexedEmpty(t *testing.T) {
	pool := parallel.NewWorkerPool(2)
	defer pool.Close()

	results := parallel.ProcessIndexed(pool, []string{}, func(_ int, value string) string {
		return value
	})

	assert.Nil(t, results)
}

func TestProcessIndexedConcurrency(t *testing.T) {
	pool := parallel.NewWorkerPool(4)
	defer pool.Close()

	var concurrentCount int64
	var maxConcurrent int64

	input := make([]int, 20)
	for i := range input {
		input[i] = i
	}

	results := parallel.ProcessIndexed(pool, input, func(_ int, x int) int {
		current := atomic.AddInt64(&concurrentCount, 1)
		for {
			maxVal := atomic.LoadInt64(&maxConcurrent)
			if current <= maxVal || atomic.CompareAndSwapInt64(&maxConcurrent, maxVal, current) {
				break
			}
		}

		time.Sleep(10 * time.Millisecond)

		atomic.AddInt64(&concurrentCount, -1)
		return x * 2
	})

	require.Len(t, results, 20)
	for i, r := range results {
		assert.Equal(t, i*2, r)
	}
	assert.Greater(t, maxConcurrent, int64(1), "Expected some concurrent execution")
}

func TestWorkerPoolClose(t *testing.T) {
	pool := parallel.NewWorkerPool(2)

	results := parallel.ProcessIndexed(pool, []int{1, 2, 3}, func(_ int, x int) int {
		return x
	})
	assert.Len(t, results, 3)

	pool.Close()
	assert.NotPanics(t, func() {
		pool.Close()
	})
}

func TestChunks(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		chunkSize int
		workers   int
		expected  []parallel.Range
	}{
		{"empty", 0, 10, 2, nil},
		{"exact", 20, 10, 2, []parallel.Range{{0, 10}, {10, 20}}},
		{"remainder", 25, 10, 2, []parallel.Range{{0, 10}, {10, 20}, {20, 25}}},
		{"derived size has a floor", 300, 0, 4, []parallel.Range{{0, 256}, {256, 300}}},
		{"derived size per worker", 2000, 0, 2, []parallel.Range{{0, 1000}, {1000, 2000}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parallel.Chunks(tt.n, tt.chunkSize, tt.workers))
		})
	}
}

func TestForEachRange(t *testing.T) {
	cfg := config.NewConfig()
	cfg.ParallelThreshold = 100
	cfg.ChunkSize = 30
	cfg.WorkerPoolSize = 4

	t.Run("below threshold runs once", func(t *testing.T) {
		var calls int64
		parallel.ForEachRange(cfg, 50, func(r parallel.Range) {
			atomic.AddInt64(&calls, 1)
			assert.Equal(t, parallel.Range{Start: 0, End: 50}, r)
		})
		assert.Equal(t, int64(1), calls)
	})

	t.Run("above threshold covers every position once", func(t *testing.T) {
		out := make([]int, 1000)
		parallel.ForEachRange(cfg, len(out), func(r parallel.Range) {
			for i := r.Start; i < r.End; i++ {
				out[i]++
			}
		})
		for i, v := range out {
			require.Equal(t, 1, v, "position %d", i)
		}
	})
}
