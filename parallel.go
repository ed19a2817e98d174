package latincount

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	// parallelThreshold is the smallest n for which worker spawn overhead is
	// worth paying. Below it D(n) is tiny and a single thread wins.
	parallelThreshold = 8

	// maxAutoWorkers caps auto-selected parallelism. Explicit WithWorkers
	// values are not capped.
	maxAutoWorkers = 8
)

// autoWorkers picks a worker count for a given n when the caller did not
// set one. Heuristic only; any value produces identical counts.
func autoWorkers(n int) int {
	if n < parallelThreshold {
		return 1
	}
	return min(runtime.GOMAXPROCS(0), maxAutoWorkers)
}

// runSearch counts all r-row rectangles for the given set and mask table,
// partitioning the second-row index range [0, count) into near-equal
// contiguous slices across workers and summing their tallies.
//
// Partitioning is a pure re-indexing of work: every worker runs the same
// search over a disjoint slice of second-row choices, sharing the set and
// table read-only and owning its candidate buffers exclusively, so the
// aggregated result is identical for every worker count. The only join point
// is the errgroup wait; partial tallies are summed only after every worker
// has returned nil.
func runSearch(ctx context.Context, set *Set, table *MaskTable, r, workers int, complete bool) (tally, error) {
	count := set.Count()
	if workers < 1 {
		workers = 1
	}
	if workers > count {
		workers = count
	}

	if workers == 1 {
		s, err := newSearcher(set, table, r, complete)
		if err != nil {
			return tally{}, err
		}
		if err := s.searchSlice(ctx, 0, count); err != nil {
			return tally{}, err
		}
		return s.out, nil
	}

	results := make([]tally, workers)
	chunk := (count + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for k := 0; k < workers; k++ {
		lo := k * chunk
		hi := min(lo+chunk, count)
		if lo >= hi {
			continue
		}
		k := k
		g.Go(func() error {
			s, err := newSearcher(set, table, r, complete)
			if err != nil {
				return err
			}
			if err := s.searchSlice(ctx, lo, hi); err != nil {
				return err
			}
			results[k] = s.out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return tally{}, err
	}

	var sum tally
	for _, t := range results {
		sum.add(t)
	}
	return sum, nil
}
