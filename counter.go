package latincount

import (
	"context"
	"math/bits"

	latinerrors "github.com/tamirms/latincount/errors"
	"github.com/tamirms/latincount/internal/bitset"
)

// tally accumulates sign-classified counts for one worker's slice of the
// second-row index range. sqPos/sqNeg are only populated in completion mode,
// where each (n-1, n) rectangle additionally contributes its unique (n, n)
// completion.
type tally struct {
	pos, neg     uint64
	sqPos, sqNeg uint64
}

func (t *tally) add(o tally) {
	t.pos += o.pos
	t.neg += o.neg
	t.sqPos += o.sqPos
	t.sqNeg += o.sqNeg
}

// searcher owns the mutable state of one search branch tree: a preallocated
// candidate bitset per depth plus the running tallies. The derangement set and
// mask table it reads are shared and immutable; a searcher itself must never
// be shared across goroutines.
type searcher struct {
	set      *Set
	table    *MaskTable
	r        int
	complete bool

	full    bitset.Bits   // all-ones over [0, count); the depth-1 candidate mask
	scratch []bitset.Bits // scratch[d] is the candidate buffer for depth d
	comp    bitset.Bits   // completion-step buffer
	out     tally
}

// newSearcher prepares per-branch state for counting r-row rectangles.
// In completion mode r must be exactly n-1; anything else would violate the
// bijection precondition, so it is rejected up front.
func newSearcher(set *Set, table *MaskTable, r int, complete bool) (*searcher, error) {
	if r < 2 || r > set.N() {
		return nil, latinerrors.ErrInvalidDimension
	}
	if complete && r != set.N()-1 {
		return nil, latinerrors.ErrBijectionViolation
	}

	count := set.Count()
	s := &searcher{
		set:      set,
		table:    table,
		r:        r,
		complete: complete,
		full:     bitset.New(count),
		scratch:  make([]bitset.Bits, r),
	}
	s.full.SetAll(count)
	for d := 2; d < r; d++ {
		s.scratch[d] = bitset.New(count)
	}
	if complete {
		s.comp = bitset.New(count)
	}
	return s, nil
}

// searchSlice counts all rectangles whose second row index lies in [lo, hi).
// Depth 1 is iterated directly over the slice (every derangement is a legal
// second row), so partitioning the range across workers is a pure re-indexing
// of work. Cancellation is checked once per second-row candidate; a cancelled
// run returns ctx.Err() and its partial tallies must be discarded.
func (s *searcher) searchSlice(ctx context.Context, lo, hi int) error {
	if s.r == 2 {
		return s.terminalSlice(ctx, lo, hi)
	}
	for i := lo; i < hi; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := s.scratch[2]
		s.table.ExcludeInto(next, s.full, i)
		if next.Empty() {
			continue
		}
		if err := s.descend(2, next, s.set.Sign(i)); err != nil {
			return err
		}
	}
	return nil
}

// descend extends a partial rectangle one row at a time. cand enumerates the
// legal choices for the row at this depth; an empty successor mask is the
// normal pruning outcome, not an error.
func (s *searcher) descend(depth int, cand bitset.Bits, signProd int) error {
	if depth == s.r-1 {
		return s.terminal(cand, signProd)
	}
	next := s.scratch[depth+1]
	for w, word := range cand {
		for word != 0 {
			i := w<<6 + bits.TrailingZeros64(word)
			word &= word - 1
			s.table.ExcludeInto(next, cand, i)
			if next.Empty() {
				continue
			}
			if err := s.descend(depth+1, next, signProd*s.set.Sign(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// terminal tallies the final row. cand already enumerates exactly the legal
// choices, so the classification reduces to one popcount split against the
// sign bits; no row is materialized. In completion mode each final choice is
// additionally narrowed one more step and must leave exactly one candidate,
// whose sign classifies the completed square.
func (s *searcher) terminal(cand bitset.Bits, signProd int) error {
	total := uint64(cand.PopCount())
	even := uint64(bitset.PopCountAnd(cand, s.set.SignBits()))
	if signProd > 0 {
		s.out.pos += even
		s.out.neg += total - even
	} else {
		s.out.pos += total - even
		s.out.neg += even
	}

	if !s.complete {
		return nil
	}
	for w, word := range cand {
		for word != 0 {
			i := w<<6 + bits.TrailingZeros64(word)
			word &= word - 1
			if err := s.completeSquare(cand, i, signProd*s.set.Sign(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// terminalSlice is the r = 2 degenerate case: depth 1 is already terminal and
// every derangement in the slice is a legal (and final) second row.
func (s *searcher) terminalSlice(ctx context.Context, lo, hi int) error {
	for i := lo; i < hi; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.set.Sign(i) > 0 {
			s.out.pos++
		} else {
			s.out.neg++
		}
		if s.complete {
			if err := s.completeSquare(s.full, i, s.set.Sign(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// completeSquare applies the (n-1, n) -> (n, n) bijection for one finished
// rectangle: narrowing the candidates by the final row must leave exactly one
// derangement. Zero or several survivors mean the mask table or the caller's
// precondition is broken, and the whole computation aborts rather than guess.
func (s *searcher) completeSquare(cand bitset.Bits, final int, rectSign int) error {
	s.table.ExcludeInto(s.comp, cand, final)
	j, ok := s.comp.OnlySet()
	if !ok {
		return latinerrors.ErrBijectionViolation
	}
	if rectSign*s.set.Sign(j) > 0 {
		s.out.sqPos++
	} else {
		s.out.sqNeg++
	}
	return nil
}
