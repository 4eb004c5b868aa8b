package scanner

import (
	"context"
	"sync"
)

// Job is one unit of work with its position in the input.
type Job[In any] struct {
	Index int
	Input In
}

// Result carries the output of a Job.
type Result[Out any] struct {
	Index  int
	Output Out
}

// Processor handles a single input.
type Processor[In, Out any] func(ctx context.Context, in In) Out

// WorkerPool manages concurrent processing
type WorkerPool[In, Out any] struct {
	Concurrency int
	Processor   Processor[In, Out]
}

func NewWorkerPool[In, Out any](concurrency int, proc Processor[In, Out]) *WorkerPool[In, Out] {
	if concurrency < 1 {
		concurrency = 1
	}
	return &WorkerPool[In, Out]{
		Concurrency: concurrency,
		Processor:   proc,
	}
}

// Start runs the workers until jobs is closed or ctx is done. The results
// channel is closed once every worker has returned.
func (wp *WorkerPool[In, Out]) Start(ctx context.Context, jobs <-chan Job[In]) <-chan Result[Out] {
	results := make(chan Result[Out])
	var wg sync.WaitGroup

	for i := 0; i < wp.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					return
				}
				out := wp.Processor(ctx, job.Input)
				select {
				case results <- Result[Out]{Index: job.Index, Output: out}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Run processes inputs and returns the outputs in input order. When ctx is
// cancelled the unprocessed positions hold zero values and ctx.Err() is
// returned.
func (wp *WorkerPool[In, Out]) Run(ctx context.Context, inputs []In) ([]Out, error) {
	jobs := make(chan Job[In])
	go func() {
		defer close(jobs)
		for i, in := range inputs {
			select {
			case jobs <- Job[In]{Index: i, Input: in}:
			case <-ctx.Done():
				return
			}
		}
	}()

	outputs := make([]Out, len(inputs))
	for r := range wp.Start(ctx, jobs) {
		outputs[r.Index] = r.Output
	}
	return outputs, ctx.Err()
}
