package latincount

import (
	"bytes"
	"errors"
	"testing"

	latinerrors "github.com/tamirms/latincount/errors"
)

// subfactorials lists D(0)..D(8).
var subfactorials = []uint64{1, 0, 1, 2, 9, 44, 265, 1854, 14833}

func TestSubfactorial(t *testing.T) {
	for n, want := range subfactorials {
		if got := Subfactorial(n); got != want {
			t.Errorf("Subfactorial(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestBuildSetDimensionErrors(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		if _, err := BuildSet(n); !errors.Is(err, latinerrors.ErrInvalidDimension) {
			t.Errorf("BuildSet(%d) error = %v, want ErrInvalidDimension", n, err)
		}
	}
	if _, err := BuildSet(maxColumns + 1); !errors.Is(err, latinerrors.ErrUnsupportedDimension) {
		t.Errorf("BuildSet(%d) error = %v, want ErrUnsupportedDimension", maxColumns+1, err)
	}
}

func TestBuildSetEnumeration(t *testing.T) {
	for n := 2; n <= 7; n++ {
		s, err := BuildSet(n)
		if err != nil {
			t.Fatalf("BuildSet(%d): %v", n, err)
		}
		if got, want := uint64(s.Count()), Subfactorial(n); got != want {
			t.Fatalf("n=%d: count = %d, want D(n) = %d", n, got, want)
		}

		prev := []uint8(nil)
		for i := 0; i < s.Count(); i++ {
			row := s.Row(i)
			var seen uint16
			for pos, v := range row {
				if v < 1 || int(v) > n {
					t.Fatalf("n=%d row %d: value %d out of range", n, i, v)
				}
				if int(v) == pos+1 {
					t.Fatalf("n=%d row %d: fixed point at position %d", n, i, pos)
				}
				if seen&(1<<v) != 0 {
					t.Fatalf("n=%d row %d: repeated value %d", n, i, v)
				}
				seen |= 1 << v
			}
			if prev != nil && bytes.Compare(prev, row) >= 0 {
				t.Fatalf("n=%d: rows %d, %d not in strict lexicographic order", n, i-1, i)
			}
			prev = row
		}
	}
}

// inversionSignEven is an independent sign oracle: parity of inversion count.
func inversionSignEven(perm []uint8) bool {
	inv := 0
	for i := range perm {
		for j := i + 1; j < len(perm); j++ {
			if perm[i] > perm[j] {
				inv++
			}
		}
	}
	return inv%2 == 0
}

func TestSigns(t *testing.T) {
	for n := 2; n <= 6; n++ {
		s, err := BuildSet(n)
		if err != nil {
			t.Fatalf("BuildSet(%d): %v", n, err)
		}
		for i := 0; i < s.Count(); i++ {
			sign := s.Sign(i)
			if sign != 1 && sign != -1 {
				t.Fatalf("n=%d index %d: sign = %d, want +1 or -1", n, i, sign)
			}
			if want := inversionSignEven(s.Row(i)); (sign == 1) != want {
				t.Fatalf("n=%d index %d (%v): sign = %d disagrees with inversion parity", n, i, s.Row(i), sign)
			}
		}
	}
}

func TestBuildSetDeterministic(t *testing.T) {
	a, err := BuildSet(5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildSet(5)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.values, b.values) {
		t.Error("repeated builds produced different value arrays")
	}
	for w := range a.signs {
		if a.signs[w] != b.signs[w] {
			t.Fatal("repeated builds produced different sign assignments")
		}
	}
}

func TestPositionValueIndex(t *testing.T) {
	s, err := BuildSet(5)
	if err != nil {
		t.Fatal(err)
	}
	n := s.N()
	for pos := 0; pos < n; pos++ {
		total := 0
		for v := 1; v <= n; v++ {
			idxs := s.PositionValue(pos, uint8(v))
			if v == pos+1 && len(idxs) != 0 {
				t.Fatalf("pos %d: fixed-point value %d has %d entries", pos, v, len(idxs))
			}
			for _, i := range idxs {
				if got := s.Value(int(i), pos); got != uint8(v) {
					t.Fatalf("pos %d val %d: index %d places %d", pos, v, i, got)
				}
			}
			total += len(idxs)
		}
		// Each derangement has exactly one value at each position.
		if total != s.Count() {
			t.Fatalf("pos %d: index covers %d entries, want %d", pos, total, s.Count())
		}
	}
}

func TestPrefixRanges(t *testing.T) {
	s, err := BuildSet(5)
	if err != nil {
		t.Fatal(err)
	}
	n := s.N()

	covered := 0
	for v := 1; v <= n; v++ {
		lo, hi := s.PrefixRange(uint8(v))
		if v == 1 && lo != hi {
			t.Errorf("PrefixRange(1) = [%d,%d), want empty", lo, hi)
		}
		for i := lo; i < hi; i++ {
			if got := s.Value(i, 0); got != uint8(v) {
				t.Fatalf("PrefixRange(%d): index %d starts with %d", v, i, got)
			}
		}
		covered += hi - lo
	}
	if covered != s.Count() {
		t.Fatalf("prefix ranges cover %d indices, want %d", covered, s.Count())
	}

	covered = 0
	for v0 := 1; v0 <= n; v0++ {
		for v1 := 1; v1 <= n; v1++ {
			lo, hi := s.PrefixRange2(uint8(v0), uint8(v1))
			for i := lo; i < hi; i++ {
				if s.Value(i, 0) != uint8(v0) || s.Value(i, 1) != uint8(v1) {
					t.Fatalf("PrefixRange2(%d,%d): index %d starts with (%d,%d)",
						v0, v1, i, s.Value(i, 0), s.Value(i, 1))
				}
			}
			covered += hi - lo
		}
	}
	if covered != s.Count() {
		t.Fatalf("pair prefix ranges cover %d indices, want %d", covered, s.Count())
	}
}
