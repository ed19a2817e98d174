// Package latincount exactly counts normalized Latin rectangles classified by
// sign: r x n matrices whose rows are permutations of {1..n}, whose first row
// is the identity, and whose columns never repeat a value, split into those
// with positive and negative products of row permutation signs.
//
// The engine enumerates the derangements of {1..n} once per n, tags each with
// its sign, and precomputes a conflict mask per (position, value) pair, i.e. a
// bitset over derangement indices. A depth-bounded backtracking search then
// extends rectangles one row at a time, narrowing a candidate bitset with
// bitwise operations instead of per-element scans and pruning dead branches
// the moment the mask goes empty. At r = n-1 the unique-completion bijection
// yields the (n, n) square counts in the same pass; r = 2 uses a closed form.
//
// # Basic Usage
//
//	counter := latincount.New(latincount.WithWorkers(4))
//	res, err := counter.Count(ctx, 4, 5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("positive=%d negative=%d difference=%d\n",
//	    res.Positive, res.Negative, res.Difference())
//
// # Package Structure
//
// The implementation is organized as follows:
//
//   - Public API: count.go (Counter, Count, Result), options.go (Option, With* functions)
//   - Enumeration: derange.go (Set, BuildSet, Subfactorial, prefix indices)
//   - Conflict masks: masks.go (MaskTable)
//   - Search: counter.go (backtracking, terminal popcount split, completion
//     bijection), closedform.go (r = 2), parallel.go (worker partitioning)
//   - Serialization: header.go (set file header/footer), setfile.go
//     (WriteSetFile, OpenSetFile), cache.go (per-n table cache with rebuild
//     fallback)
//   - Result persistence: store/ (Store interface, Memory, Badger)
//   - Platform: fallocate_*.go (disk preallocation)
package latincount
