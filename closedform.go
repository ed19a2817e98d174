package latincount

import latinerrors "github.com/tamirms/latincount/errors"

// derangementSignSplit returns the number of even (+1) and odd (-1)
// derangements of n elements.
//
// The split follows from two identities: even + odd = D(n), and
// even - odd = (-1)^(n-1) * (n-1), the determinant of the n x n matrix with
// zeros on the diagonal and ones elsewhere. Since the sign of a 2-row
// normalized rectangle is exactly the sign of its second row, this is the
// closed form for r = 2 and the correctness oracle for the search at deeper r.
func derangementSignSplit(n int) (even, odd uint64) {
	d := Subfactorial(n)
	diff := uint64(n - 1)
	if n%2 == 1 {
		return (d + diff) / 2, (d - diff) / 2
	}
	return (d - diff) / 2, (d + diff) / 2
}

// countTwoRows is the r = 2 entrypoint: no search machinery, just the
// closed form above.
func countTwoRows(n int) (Result, error) {
	if n < minColumns {
		return Result{}, latinerrors.ErrInvalidDimension
	}
	even, odd := derangementSignSplit(n)
	return Result{Positive: even, Negative: odd}, nil
}
