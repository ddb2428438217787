// Package pool runs the per-record scoring map across a bounded set of
// workers. Scoring is embarrassingly parallel once the normalization
// statistics are frozen; the only discipline required is that Map returns
// after every worker has finished, so selection always sees the complete
// scored set.
package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/aso-kit/keyrank/internal/domain/model"
)

// ScoreFunc maps one raw record to its scored form. It must be pure and
// safe for concurrent use.
type ScoreFunc func(model.KeywordRecord) model.ScoredRecord

// Pool fans a record batch out over workers and joins the results.
type Pool struct {
	workers int
}

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent scoring workers.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// New creates a Pool with configuration options. The default is a single
// worker, i.e. sequential scoring.
func New(opts ...Option) *Pool {
	p := &Pool{workers: 1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Map applies fn to every record, preserving input order in the result.
// It honors ctx: on cancellation the workers drain and the context error
// is returned instead of a partial batch.
func (p *Pool) Map(ctx context.Context, records []model.KeywordRecord, fn ScoreFunc) ([]model.ScoredRecord, error) {
	out := make([]model.ScoredRecord, len(records))

	if p.workers == 1 {
		for i, r := range records {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("scoring cancelled: %w", err)
			}
			out[i] = fn(r)
		}
		return out, nil
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				out[i] = fn(records[i])
			}
		}()
	}

	var cancelled error
feed:
	for i := range records {
		if cancelled = ctx.Err(); cancelled != nil {
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case indices <- i:
		}
	}
	close(indices)

	// Join barrier: selection must never run against a half-scored batch.
	wg.Wait()

	if cancelled != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", cancelled)
	}
	return out, nil
}
