package latincount

import (
	latinerrors "github.com/tamirms/latincount/errors"
	"github.com/tamirms/latincount/internal/bitset"
)

const (
	// minColumns is the smallest n for which derangements are defined
	// meaningfully for the rectangle problem.
	minColumns = 2

	// maxColumns bounds n so that the conflict mask table stays within a few
	// hundred MB (n^2 bitsets over D(n) bits; D(11) = 14,684,570). This is a
	// performance boundary, not a mathematical one: the search is generic in n,
	// but larger dimensions are combinatorially infeasible anyway.
	maxColumns = 11

	// maxRows bounds the recursion depth of the search. Like maxColumns it is
	// a practical ceiling (scratch bitsets are preallocated per depth), not an
	// algorithmic limit. r <= n always holds, so maxColumns already implies it;
	// the constant exists so the bound is explicit at validation time.
	maxRows = maxColumns
)

// Set holds every derangement of {1..n} in lexicographic order, tagged with
// its permutation sign, plus the lookup indices used by the search:
//
//   - a (position, value) index listing which derangements place a given
//     value at a given position (the precursor to the conflict mask table)
//   - leading-value prefix ranges, valid because the ordering is lexicographic,
//     used to skip pre-filtering when a caller already knows a candidate's
//     first coordinate
//
// A Set is immutable after BuildSet or OpenSetFile returns and is safe for
// concurrent readers.
type Set struct {
	n      int
	count  int
	values []uint8     // count x n, row-major; 1-based values
	signs  bitset.Bits // bit i set = set[i] is an even permutation (+1)

	posVal  [][]uint32 // (pos*n + val-1) -> sorted indices placing val at pos
	prefix  []int32    // n+1 offsets; first value v spans [prefix[v-1], prefix[v])
	prefix2 []int32    // n*n+1 offsets for leading (v0, v1) pairs
}

// Subfactorial returns D(n), the number of derangements of n elements.
// Exact in uint64 for n <= 20, far beyond the supported dimension ceiling.
func Subfactorial(n int) uint64 {
	if n == 0 {
		return 1
	}
	var prev, cur uint64 = 1, 0 // D(0), D(1)
	for i := 2; i <= n; i++ {
		prev, cur = cur, uint64(i-1)*(cur+prev)
	}
	if n == 1 {
		return 0
	}
	return cur
}

// BuildSet enumerates all derangements of {1..n} in lexicographic order and
// computes each one's sign. Building is deterministic and idempotent: repeated
// builds for the same n produce bit-identical results, which is what keeps
// persisted set files valid across runs.
func BuildSet(n int) (*Set, error) {
	if n < minColumns {
		return nil, latinerrors.ErrInvalidDimension
	}
	if n > maxColumns {
		return nil, latinerrors.ErrUnsupportedDimension
	}

	count := int(Subfactorial(n))
	s := &Set{
		n:      n,
		count:  count,
		values: make([]uint8, 0, count*n),
	}

	perm := make([]uint8, n)
	used := make([]bool, n+1)
	var rec func(pos int)
	rec = func(pos int) {
		if pos == n {
			s.values = append(s.values, perm...)
			return
		}
		for v := 1; v <= n; v++ {
			if used[v] || v == pos+1 {
				continue
			}
			used[v] = true
			perm[pos] = uint8(v)
			rec(pos + 1)
			used[v] = false
		}
	}
	rec(0)

	if len(s.values) != count*n {
		// Subfactorial and the enumeration disagree; one of them is broken.
		panic("latincount: derangement enumeration count mismatch")
	}

	s.signs = bitset.New(count)
	visited := make([]bool, n)
	for i := 0; i < count; i++ {
		if permutationEven(s.Row(i), visited) {
			s.signs.Set(i)
		}
	}

	s.buildIndices()
	return s, nil
}

// permutationEven reports whether perm (1-based values) is an even permutation,
// via cycle decomposition: sign = (-1)^(n - #cycles). visited is scratch space
// of length n, reset on entry.
func permutationEven(perm []uint8, visited []bool) bool {
	for i := range visited {
		visited[i] = false
	}
	cycles := 0
	for i := range perm {
		if visited[i] {
			continue
		}
		cycles++
		for j := i; !visited[j]; j = int(perm[j]) - 1 {
			visited[j] = true
		}
	}
	return (len(perm)-cycles)%2 == 0
}

// buildIndices derives the (position, value) index and the leading-value
// prefix ranges from the value array. Called by both BuildSet and OpenSetFile.
func (s *Set) buildIndices() {
	n, count := s.n, s.count

	s.posVal = make([][]uint32, n*n)
	for i := 0; i < count; i++ {
		row := s.Row(i)
		for pos, v := range row {
			slot := pos*n + int(v) - 1
			s.posVal[slot] = append(s.posVal[slot], uint32(i))
		}
	}

	// Lexicographic order groups derangements by leading value(s), so prefix
	// ranges are plain offset scans.
	s.prefix = make([]int32, n+1)
	s.prefix2 = make([]int32, n*n+1)
	for i := 0; i < count; i++ {
		row := s.Row(i)
		v0 := int(row[0])
		v1 := int(row[1])
		s.prefix[v0]++
		s.prefix2[(v0-1)*n+v1]++
	}
	for v := 1; v <= n; v++ {
		s.prefix[v] += s.prefix[v-1]
	}
	for p := 1; p <= n*n; p++ {
		s.prefix2[p] += s.prefix2[p-1]
	}
}

// N returns the number of columns.
func (s *Set) N() int { return s.n }

// Count returns the number of derangements, D(n).
func (s *Set) Count() int { return s.count }

// Row returns the value sequence of derangement i. The returned slice aliases
// the set's backing array and must not be modified.
func (s *Set) Row(i int) []uint8 {
	return s.values[i*s.n : (i+1)*s.n]
}

// Value returns the value derangement i places at position pos (0-based).
func (s *Set) Value(i, pos int) uint8 {
	return s.values[i*s.n+pos]
}

// Sign returns +1 or -1 for derangement i, never 0.
func (s *Set) Sign(i int) int {
	if s.signs.Test(i) {
		return 1
	}
	return -1
}

// SignBits returns the bit-per-index sign array (bit set = +1). The returned
// bitset aliases internal state and must not be modified.
func (s *Set) SignBits() bitset.Bits { return s.signs }

// PositionValue returns the sorted indices of derangements placing val at pos.
// The returned slice aliases internal state and must not be modified.
func (s *Set) PositionValue(pos int, val uint8) []uint32 {
	return s.posVal[pos*s.n+int(val)-1]
}

// PrefixRange returns the index range [lo, hi) of derangements whose first
// value is v. The range is empty for v == 1 (a derangement never places 1
// at position 0).
func (s *Set) PrefixRange(v uint8) (lo, hi int) {
	return int(s.prefix[v-1]), int(s.prefix[v])
}

// PrefixRange2 returns the index range [lo, hi) of derangements whose first
// two values are v0, v1.
func (s *Set) PrefixRange2(v0, v1 uint8) (lo, hi int) {
	p := (int(v0)-1)*s.n + int(v1)
	return int(s.prefix2[p-1]), int(s.prefix2[p])
}
