package concurrent

import (
	"sync"
)

// WorkerPool fans a batch of jobs out over a fixed number of goroutines.
// the result channel is buffered for the whole batch, so the usual
// AddJob/Close/Start/Wait/CollectResults sequence never deadlocks.
type WorkerPool[T JobI, G any] struct {
	numWorkers int
	jobs       chan Job[T]
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T JobI, G any](numWorkers, capacity int) *WorkerPool[T, G] {
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobs:       make(chan Job[T], capacity),
		results:    make(chan G, capacity),
	}
}

func (wp *WorkerPool[T, G]) AddJob(job Job[T]) {
	wp.jobs <- job
}

// Close marks that no more jobs will be added.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobs)
}

func (wp *WorkerPool[T, G]) Start(f JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go func() {
			defer wp.wg.Done()
			for job := range wp.jobs {
				wp.results <- f(job.JobItem)
			}
		}()
	}
}

// Wait blocks until every worker drained the job channel, then closes the
// result channel so CollectResults ranges cleanly.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() <-chan G {
	return wp.results
}
