package latincount

import (
	"testing"

	"github.com/tamirms/latincount/internal/bitset"
)

// TestMaskPartition checks that, for each position, the masks over all values
// are pairwise disjoint and union to the full index universe.
func TestMaskPartition(t *testing.T) {
	for n := 2; n <= 6; n++ {
		s, err := BuildSet(n)
		if err != nil {
			t.Fatalf("BuildSet(%d): %v", n, err)
		}
		table := NewMaskTable(s)

		for pos := 0; pos < n; pos++ {
			union := bitset.New(s.Count())
			seen := 0
			for v := 1; v <= n; v++ {
				m := table.Mask(pos, uint8(v))
				if got := bitset.PopCountAnd(union, m); got != 0 {
					t.Fatalf("n=%d pos=%d val=%d: mask overlaps earlier masks (%d bits)", n, pos, v, got)
				}
				union.Or(m)
				seen += m.PopCount()
			}
			if seen != s.Count() || union.PopCount() != s.Count() {
				t.Fatalf("n=%d pos=%d: masks cover %d of %d indices", n, pos, seen, s.Count())
			}
		}
	}
}

func TestMaskMatchesSet(t *testing.T) {
	s, err := BuildSet(5)
	if err != nil {
		t.Fatal(err)
	}
	table := NewMaskTable(s)

	for pos := 0; pos < s.N(); pos++ {
		for v := 1; v <= s.N(); v++ {
			m := table.Mask(pos, uint8(v))
			for i := 0; i < s.Count(); i++ {
				want := s.Value(i, pos) == uint8(v)
				if m.Test(i) != want {
					t.Fatalf("pos=%d val=%d index=%d: mask bit %v, want %v", pos, v, i, m.Test(i), want)
				}
			}
		}
	}
}

// conflicts reports whether two derangements share a value at any position.
func conflicts(a, b []uint8) bool {
	for pos := range a {
		if a[pos] == b[pos] {
			return true
		}
	}
	return false
}

// TestExclude compares the bitwise conflict union against a direct
// column-by-column comparison.
func TestExclude(t *testing.T) {
	s, err := BuildSet(4)
	if err != nil {
		t.Fatal(err)
	}
	table := NewMaskTable(s)

	full := bitset.New(s.Count())
	full.SetAll(s.Count())
	got := bitset.New(s.Count())

	for i := 0; i < s.Count(); i++ {
		table.ExcludeInto(got, full, i)
		if got.Test(i) {
			t.Fatalf("index %d survives its own exclusion", i)
		}
		for j := 0; j < s.Count(); j++ {
			want := !conflicts(s.Row(i), s.Row(j))
			if got.Test(j) != want {
				t.Fatalf("exclude %d: index %d survives=%v, want %v", i, j, got.Test(j), want)
			}
		}
	}
}
