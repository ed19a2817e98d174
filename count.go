package latincount

import (
	"context"

	latinerrors "github.com/tamirms/latincount/errors"
	"github.com/tamirms/latincount/store"
)

// Result is the sign-classified count of normalized r x n Latin rectangles:
// rectangles whose overall sign (the product of the row permutation signs) is
// +1 versus -1. Immutable once returned.
type Result struct {
	Positive uint64
	Negative uint64
}

// Total returns Positive + Negative.
func (r Result) Total() uint64 {
	return r.Positive + r.Negative
}

// Difference returns Positive - Negative as a signed value.
func (r Result) Difference() int64 {
	return int64(r.Positive) - int64(r.Negative)
}

// Counter computes exact sign-classified counts of normalized Latin
// rectangles. It owns an explicit per-n cache of derangement sets and conflict
// mask tables and, optionally, a persistent result store and a set file
// directory. Safe for concurrent use.
type Counter struct {
	cfg    config
	tables *tableCache
}

// New returns a Counter configured by the given options.
func New(opts ...Option) *Counter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Counter{
		cfg:    cfg,
		tables: newTableCache(cfg.cacheDir, cfg.logger),
	}
}

// Count returns the number of positive- and negative-sign normalized r x n
// Latin rectangles.
//
// Dimensions are validated before any work: r < 2, r > n, or n < 2 fail with
// ErrInvalidDimension, and n beyond the supported ceiling fails with
// ErrUnsupportedDimension. r = 2 short-circuits to the closed form. r = n is
// derived from the r = n-1 search via the unique-completion bijection, and a
// plain r = n-1 request yields the (n, n) result in the same pass; both
// results are stored when a result store is configured.
func (c *Counter) Count(ctx context.Context, r, n int) (Result, error) {
	if n < minColumns || r < 2 || r > n {
		return Result{}, latinerrors.ErrInvalidDimension
	}
	if n > maxColumns || r > maxRows {
		return Result{}, latinerrors.ErrUnsupportedDimension
	}

	if res, ok := c.storeGet(r, n); ok {
		return res, nil
	}

	if r == 2 {
		res, err := countTwoRows(n)
		if err != nil {
			return Result{}, err
		}
		c.storePut(r, n, res)
		return res, nil
	}

	t, err := c.tables.get(n)
	if err != nil {
		return Result{}, err
	}

	workers := c.cfg.workers
	if workers <= 0 {
		workers = autoWorkers(n)
	}

	// r = n rides on the r = n-1 search; every (n-1, n) rectangle completes
	// to exactly one (n, n) square.
	searchRows := r
	if r == n {
		searchRows = n - 1
	}
	complete := searchRows == n-1

	sum, err := runSearch(ctx, t.set, t.mask, searchRows, workers, complete)
	if err != nil {
		return Result{}, err
	}

	rect := Result{Positive: sum.pos, Negative: sum.neg}
	square := Result{Positive: sum.sqPos, Negative: sum.sqNeg}
	if complete {
		c.storePut(n-1, n, rect)
		c.storePut(n, n, square)
	} else {
		c.storePut(r, n, rect)
	}

	if r == n {
		return square, nil
	}
	return rect, nil
}

// storeGet consults the result store. Store failures are logged and treated
// as misses; a broken store must never block a computation.
func (c *Counter) storeGet(r, n int) (Result, bool) {
	if c.cfg.results == nil {
		return Result{}, false
	}
	res, ok, err := c.cfg.results.Get(r, n)
	if err != nil {
		c.cfg.logger.Warn("result store get failed", "r", r, "n", n, "err", err)
		return Result{}, false
	}
	if !ok {
		return Result{}, false
	}
	return Result{Positive: res.Positive, Negative: res.Negative}, true
}

// storePut updates the result store, logging failures.
func (c *Counter) storePut(r, n int, res Result) {
	if c.cfg.results == nil {
		return
	}
	err := c.cfg.results.Put(r, n, store.Result{Positive: res.Positive, Negative: res.Negative})
	if err != nil {
		c.cfg.logger.Warn("result store put failed", "r", r, "n", n, "err", err)
	}
}
