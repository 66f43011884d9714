// Package jobs runs bounded fan-out work inside a single request.
package jobs

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// PoolConfig configures a Pool.
type PoolConfig struct {
	Workers int
	Logger  *zap.Logger
}

// Pool caps how many tasks of one fan-out run at the same time.
type Pool struct {
	name    string
	workers int
	logger  *zap.Logger
}

// Task processes one item. index is the item's position in the input.
type Task[T any] func(ctx context.Context, index int, item T) error

// NewPool builds a pool. Workers defaults to 4.
func NewPool(name string, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool{name: name, workers: cfg.Workers, logger: cfg.Logger}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int { return p.workers }

// Run executes fn for every item and returns one error slot per item, in input
// order. A cancelled context marks the remaining items with ctx.Err().
func Run[T any](ctx context.Context, p *Pool, items []T, fn Task[T]) []error {
	errs := make([]error, len(items))
	if len(items) == 0 {
		return errs
	}

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	for i, item := range items {
		if !acquire(ctx, sem) {
			for j := i; j < len(items); j++ {
				errs[j] = ctx.Err()
			}
			wg.Wait()
			return errs
		}

		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(ctx, i, item); err != nil {
				errs[i] = err
				p.logger.Sugar().Debugw("pool task failed", "pool", p.name, "index", i, "error", err)
			}
		}(i, item)
	}
	wg.Wait()
	return errs
}

func acquire(ctx context.Context, sem chan struct{}) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case sem <- struct{}{}:
		return true
	}
}

// Failed counts the non-nil entries of errs.
func Failed(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}
