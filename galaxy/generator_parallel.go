package galaxy

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// defaultChunkSize is the number of stars generated per pool task.
const defaultChunkSize = 16384

// ParallelGenerator splits generation into fixed-size chunks and fills them on a worker pool.
// Chunk k draws from its own PCG stream (seed, k), so the output for a given seed, count and chunk size
// does not depend on the number of workers or on scheduling order.
type ParallelGenerator struct {
	pool      worker.DynamicWorkerPool
	workers   int
	chunkSize int
	seed      uint64
	next      atomic.Uint64
}

var _ Generator = &ParallelGenerator{}

// NewParallelGenerator creates a generator backed by a worker pool.
//
// Parameters:
//   - workers: the pool size, or <= 0 for runtime.NumCPU()
//   - seed: the base seed, or 0 to seed from the clock on every Generate call
//
// Returns:
//   - *ParallelGenerator: the generator; call Release when done
func NewParallelGenerator(workers int, seed uint64) *ParallelGenerator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ParallelGenerator{
		pool:      worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		workers:   workers,
		chunkSize: defaultChunkSize,
		seed:      seed,
	}
}

// Workers returns the size of the underlying pool.
func (g *ParallelGenerator) Workers() int {
	return g.workers
}

// Generate fills count stars across the worker pool and blocks until every chunk is written.
func (g *ParallelGenerator) Generate(params ParameterSet, count int) (*AttributeBuffers, error) {
	if err := checkGenerate(params, count); err != nil {
		return nil, err
	}

	seed := g.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) + g.next.Add(1)
	}

	buffers := NewAttributeBuffers(count)
	shaper := newStarShaper(params)

	// Chunks write disjoint index ranges of the shared buffers, so no locking is needed.
	// A WaitGroup is the barrier; pool.Wait() also waits on unrelated queued work.
	var wg sync.WaitGroup
	for chunk, start := 0, 0; start < count; chunk, start = chunk+1, start+g.chunkSize {
		end := min(start+g.chunkSize, count)
		src := newStreamSource(seed, uint64(chunk))

		wg.Add(1)
		s, e := start, end
		g.pool.SubmitTask(worker.Task{
			ID: chunk,
			Do: func() (any, error) {
				defer wg.Done()
				shaper.fill(buffers, s, e, src)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return buffers, nil
}

// Release stops the worker pool.
func (g *ParallelGenerator) Release() {
	g.pool.Stop()
}
