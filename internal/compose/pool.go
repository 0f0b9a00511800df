package compose

import (
	"context"
	"sync"
)

// Outcome pairs a request with what happened to it.
type Outcome struct {
	Request Request
	Result  Result
	Err     error
}

// Pool runs compositions with bounded parallelism. Media encoding saturates
// cores quickly, so the bound stays small.
type Pool struct {
	composer *Composer
	workers  int
}

// NewPool constructs a pool over the composer.
func NewPool(composer *Composer, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{composer: composer, workers: workers}
}

// Run executes every request and returns outcomes in request order. A
// cancelled context fails the remaining requests with ctx.Err().
func (p *Pool) Run(ctx context.Context, requests []Request) []Outcome {
	outcomes := make([]Outcome, len(requests))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i].Request = requests[i]
				if err := ctx.Err(); err != nil {
					outcomes[i].Err = err
					continue
				}
				outcomes[i].Result, outcomes[i].Err = p.composer.Compose(ctx, requests[i])
			}
		}()
	}

	for i := range requests {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return outcomes
}
