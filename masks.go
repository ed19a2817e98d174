package latincount

import "github.com/tamirms/latincount/internal/bitset"

// MaskTable holds, for each (position, value) pair, the bitset of derangement
// indices that place value at position. During the search these are the
// exclusion masks: a row placing value at position forbids every derangement
// in Mask(position, value) from appearing as a later row.
//
// For a fixed position the masks over all values partition the full index
// universe: each derangement places exactly one value at each position.
//
// The table is built once per n in O(n^2 * count) and never mutated; it is the
// read-only resource shared by every search branch and every worker.
type MaskTable struct {
	set   *Set
	words int
	masks []bitset.Bits // pos*n + val-1
}

// NewMaskTable derives the conflict masks from a derangement set.
func NewMaskTable(set *Set) *MaskTable {
	n, count := set.N(), set.Count()
	t := &MaskTable{
		set:   set,
		words: bitset.WordsFor(count),
		masks: make([]bitset.Bits, n*n),
	}

	// One backing array for all masks keeps them contiguous.
	backing := make(bitset.Bits, n*n*t.words)
	for slot := range t.masks {
		t.masks[slot] = backing[slot*t.words : (slot+1)*t.words]
	}

	for i := 0; i < count; i++ {
		row := set.Row(i)
		for pos, v := range row {
			t.masks[pos*n+int(v)-1].Set(i)
		}
	}
	return t
}

// Mask returns the bitset of derangement indices placing val at pos.
// O(1); the returned bitset aliases internal state and must not be modified.
func (t *MaskTable) Mask(pos int, val uint8) bitset.Bits {
	return t.masks[pos*t.set.n+int(val)-1]
}

// Exclude narrows dst by the full conflict union of derangement i:
// dst = dst AND NOT (OR over pos of Mask(pos, row_i[pos])). Bit i itself is
// always cleared, since row i trivially conflicts with itself at every column.
func (t *MaskTable) Exclude(dst bitset.Bits, i int) {
	row := t.set.Row(i)
	n := t.set.n
	for pos, v := range row {
		m := t.masks[pos*n+int(v)-1]
		for w, word := range m {
			dst[w] &^= word
		}
	}
}

// ExcludeInto is Exclude with an explicit source: dst = src minus the conflict
// union of derangement i. dst and src must have equal length and not alias.
func (t *MaskTable) ExcludeInto(dst, src bitset.Bits, i int) {
	dst.Copy(src)
	t.Exclude(dst, i)
}
