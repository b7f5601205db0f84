package async

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// ScatterResult is one worker's contribution to a Scatter call: the offset
// into the original input its extent starts at, and the value its handler
// returned for that extent.
type ScatterResult struct {
	Offset int
	Extent interface{}
}

// scatterChunkSize bounds how many elements a single worker processes; this
// keeps the sync pipeline's batch-verification fan-out (spec.md §4.F) from
// spinning up one goroutine per block when a batch is enormous.
const scatterChunkSize = 1024

// Scatter splits n elements into chunks of at most scatterChunkSize items,
// processes each chunk concurrently across runtime.NumCPU() workers via f,
// and returns every worker's result. mu is shared across all workers so f
// can safely touch state common to the whole input (e.g. a running tally)
// without each caller building its own synchronization.
func Scatter(n int, f func(offset int, entries int, mu *sync.RWMutex) (interface{}, error)) ([]ScatterResult, error) {
	if n <= 0 {
		return nil, errors.New("input length must be greater than 0")
	}

	numChunks := (n + scatterChunkSize - 1) / scatterChunkSize
	workers := runtime.NumCPU()
	if numChunks < workers {
		workers = numChunks
	}
	if workers < 1 {
		workers = 1
	}

	type indexedResult struct {
		index int
		res   ScatterResult
		err   error
	}

	jobs := make(chan int, numChunks)
	results := make(chan indexedResult, numChunks)
	var mu sync.RWMutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunkIdx := range jobs {
				offset := chunkIdx * scatterChunkSize
				entries := scatterChunkSize
				if offset+entries > n {
					entries = n - offset
				}
				extent, err := f(offset, entries, &mu)
				results <- indexedResult{index: chunkIdx, res: ScatterResult{Offset: offset, Extent: extent}, err: err}
			}
		}()
	}

	for c := 0; c < numChunks; c++ {
		jobs <- c
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]ScatterResult, numChunks)
	var firstErr error
	for r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		ordered[r.index] = r.res
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return ordered, nil
}
