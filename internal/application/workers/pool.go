package workers

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Pool fans work items out across a fixed number of goroutines. Pools are
// cheap to create and live for one Run call; the catalog indexer uses one per
// build to bound concurrent metadata fetches.
type Pool struct {
	size   int
	logger *zap.Logger
}

// NewPool creates a pool of the given size.
func NewPool(size int, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{size: size, logger: logger}
}

// Size returns the pool's worker count.
func (p *Pool) Size() int {
	return p.size
}

// Run processes every job through fn using the pool's workers and returns
// when all jobs are done or the context ends. fn is responsible for its own
// synchronization when collecting results.
func (p *Pool) Run(ctx context.Context, jobs []string, fn func(ctx context.Context, job string)) {
	if len(jobs) == 0 {
		return
	}

	queue := make(chan string)
	var wg sync.WaitGroup

	workers := p.size
	if workers > len(jobs) {
		workers = len(jobs)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				fn(ctx, job)
			}
		}()
	}

	p.logger.Debug("worker pool running",
		zap.Int("workers", workers),
		zap.Int("jobs", len(jobs)))

	for _, job := range jobs {
		select {
		case queue <- job:
		case <-ctx.Done():
			close(queue)
			wg.Wait()
			return
		}
	}
	close(queue)
	wg.Wait()
}
