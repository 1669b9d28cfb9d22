package concurrent

import (
	"sync"
)

type JobFunc[T any, G any] func(job T) G

// Job tags a payload with its position so results can be put back in submission order.
type Job[T any] struct {
	Index   int
	Payload T
}

type Result[G any] struct {
	Index int
	Value G
}

type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan Job[T]
	results    chan Result[G]
	wg         sync.WaitGroup
}

// NewWorkerPool. jobQueueSize should be at least the number of jobs, results are buffered with the same size
// and only drained after Wait.
func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job[T], jobQueueSize),
		results:    make(chan Result[G], jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- Result[G]{Index: job.Index, Value: jobFunc(job.Payload)}
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

func (wp *WorkerPool[T, G]) AddJob(index int, payload T) {
	wp.jobQueue <- Job[T]{Index: index, Payload: payload}
}

// Close. no more jobs
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

// Wait blocks until every worker is done and closes the result channel.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() chan Result[G] {
	return wp.results
}

// Ordered drains the results into a slice indexed by job index. call after Wait.
func (wp *WorkerPool[T, G]) Ordered(n int) []G {
	out := make([]G, n)
	for r := range wp.results {
		if r.Index >= 0 && r.Index < n {
			out[r.Index] = r.Value
		}
	}
	return out
}
