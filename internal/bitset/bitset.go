// Package bitset implements fixed-universe bitsets over []uint64 words.
//
// The universe size is fixed at allocation time; all binary operations assume
// operands of equal length. This is an internal package with a wide open
// public API: the hot search loops in the root package iterate words directly.
package bitset

import "math/bits"

// Bits is a slice of 64-bit words holding one bit per element of the universe.
type Bits []uint64

// WordsFor returns the number of words needed for a universe of n bits.
func WordsFor(n int) int {
	return (n + 63) >> 6
}

// New returns an all-zero bitset sized for a universe of n bits.
func New(n int) Bits {
	return make(Bits, WordsFor(n))
}

// Set sets bit i. The caller must ensure i is within the universe.
func (b Bits) Set(i int) {
	b[i>>6] |= 1 << (i & 63)
}

// Clear clears bit i.
func (b Bits) Clear(i int) {
	b[i>>6] &^= 1 << (i & 63)
}

// Test reports whether bit i is set.
func (b Bits) Test(i int) bool {
	return b[i>>6]&(1<<(i&63)) != 0
}

// SetAll sets bits [0, n) and clears any tail bits in the last word.
func (b Bits) SetAll(n int) {
	for w := range b {
		b[w] = ^uint64(0)
	}
	if tail := n & 63; tail != 0 {
		b[len(b)-1] = (1 << tail) - 1
	}
}

// Reset clears every bit.
func (b Bits) Reset() {
	for w := range b {
		b[w] = 0
	}
}

// Copy overwrites b with src. Lengths must match.
func (b Bits) Copy(src Bits) {
	copy(b, src)
}

// AndNot clears every bit of b that is set in m.
func (b Bits) AndNot(m Bits) {
	for w, word := range m {
		b[w] &^= word
	}
}

// And intersects b with m.
func (b Bits) And(m Bits) {
	for w, word := range m {
		b[w] &= word
	}
}

// Or unions m into b.
func (b Bits) Or(m Bits) {
	for w, word := range m {
		b[w] |= word
	}
}

// Empty reports whether no bit is set.
func (b Bits) Empty() bool {
	for _, word := range b {
		if word != 0 {
			return false
		}
	}
	return true
}

// PopCount returns the number of set bits.
func (b Bits) PopCount() int {
	n := 0
	for _, word := range b {
		n += bits.OnesCount64(word)
	}
	return n
}

// PopCountAnd returns popcount(a AND b) without allocating.
func PopCountAnd(a, b Bits) int {
	n := 0
	for w, word := range a {
		n += bits.OnesCount64(word & b[w])
	}
	return n
}

// NextSet returns the index of the first set bit at or after i,
// or (0, false) if there is none.
func (b Bits) NextSet(i int) (int, bool) {
	w := i >> 6
	if w >= len(b) {
		return 0, false
	}
	if word := b[w] >> (i & 63); word != 0 {
		return i + bits.TrailingZeros64(word), true
	}
	for w++; w < len(b); w++ {
		if b[w] != 0 {
			return w<<6 + bits.TrailingZeros64(b[w]), true
		}
	}
	return 0, false
}

// OnlySet returns the index of the single set bit, or (0, false) if the
// number of set bits is not exactly one.
func (b Bits) OnlySet() (int, bool) {
	idx, n := 0, 0
	for w, word := range b {
		if word == 0 {
			continue
		}
		n += bits.OnesCount64(word)
		if n > 1 {
			return 0, false
		}
		idx = w<<6 + bits.TrailingZeros64(word)
	}
	if n != 1 {
		return 0, false
	}
	return idx, true
}
