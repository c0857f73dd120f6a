// Package bitsearch provides fixed-size bitmaps with nearest-set-bit search
// and the shift/split edits needed to keep a bitmap aligned with the slice
// it describes.
//
// Bit i of a Bitmap always describes element i of the parallel slice. Every
// edit that removes, inserts or cuts elements of that slice has a matching
// bitmap edit (ShiftLeft, ShiftRight, Split) applied at the same index.
package bitsearch

const wordBits = 64

// Bitmap is a fixed-size bit array. Bit i lives in word i/64 at position i%64.
type Bitmap []uint64

// New returns an all-clear bitmap able to hold at least n bits.
func New(n int) Bitmap {
	if n <= 0 {
		return nil
	}
	return make(Bitmap, (n+wordBits-1)/wordBits)
}

// Len returns the number of bits the bitmap can hold.
func (b Bitmap) Len() int {
	return len(b) * wordBits
}

// Grow extends the bitmap with clear words until it holds at least n bits.
func (b *Bitmap) Grow(n int) {
	for b.Len() < n {
		*b = append(*b, 0)
	}
}

// Set sets bit i. Out-of-range indices are ignored.
func (b Bitmap) Set(i int) {
	if i < 0 || i >= b.Len() {
		return
	}
	b[i/wordBits] |= 1 << uint(i%wordBits)
}

// Clear clears bit i. Out-of-range indices are ignored.
func (b Bitmap) Clear(i int) {
	if i < 0 || i >= b.Len() {
		return
	}
	b[i/wordBits] &^= 1 << uint(i%wordBits)
}

// Test reports whether bit i is set.
func (b Bitmap) Test(i int) bool {
	if i < 0 || i >= b.Len() {
		return false
	}
	return b[i/wordBits]&(1<<uint(i%wordBits)) != 0
}

// Any reports whether at least one bit is set.
func (b Bitmap) Any() bool {
	for _, w := range b {
		if w != 0 {
			return true
		}
	}
	return false
}

// Count returns the number of set bits.
func (b Bitmap) Count() int {
	n := 0
	for i := b.Next(-1); i >= 0; i = b.Next(i) {
		n++
	}
	return n
}

// Reset clears every bit.
func (b Bitmap) Reset() {
	for i := range b {
		b[i] = 0
	}
}

// Clone returns an independent copy.
func (b Bitmap) Clone() Bitmap {
	if b == nil {
		return nil
	}
	c := make(Bitmap, len(b))
	copy(c, b)
	return c
}

// Next returns the index of the first set bit strictly after pos, or -1.
// Passing -1 searches from the start.
func (b Bitmap) Next(pos int) int {
	start := pos + 1
	if start < 0 {
		start = 0
	}
	if start >= b.Len() {
		return -1
	}

	wi := start / wordBits
	if w := b[wi] & (^uint64(0) << uint(start%wordBits)); w != 0 {
		return wi*wordBits + lowest(w)
	}
	for wi++; wi < len(b); wi++ {
		if b[wi] != 0 {
			return wi*wordBits + lowest(b[wi])
		}
	}
	return -1
}

// Prev returns the index of the last set bit at or before pos, or -1.
// Positions past the end are clamped to the last bit.
func (b Bitmap) Prev(pos int) int {
	if pos < 0 || len(b) == 0 {
		return -1
	}
	if pos >= b.Len() {
		pos = b.Len() - 1
	}

	wi := pos / wordBits
	if w := b[wi] & upTo(uint(pos%wordBits)); w != 0 {
		return wi*wordBits + highest(w)
	}
	for wi--; wi >= 0; wi-- {
		if b[wi] != 0 {
			return wi*wordBits + highest(b[wi])
		}
	}
	return -1
}

// ShiftLeft deletes bit pos, moving every higher bit down by one and
// clearing the top bit. It mirrors removing element pos from a slice.
func (b Bitmap) ShiftLeft(pos int) {
	if pos < 0 || pos >= b.Len() {
		return
	}

	wi := pos / wordBits
	keep := below(uint(pos % wordBits))
	w := b[wi]
	b[wi] = w&keep | (w>>1)&^keep
	for ; wi < len(b)-1; wi++ {
		b[wi] |= (b[wi+1] & 1) << (wordBits - 1)
		b[wi+1] >>= 1
	}
}

// ShiftRight inserts a clear bit at pos, moving every bit at or above pos
// up by one. The top bit falls off. It mirrors inserting into a slice.
func (b Bitmap) ShiftRight(pos int) {
	if pos < 0 || pos >= b.Len() {
		return
	}

	wi := pos / wordBits
	for j := len(b) - 1; j > wi; j-- {
		b[j] = b[j]<<1 | b[j-1]>>(wordBits-1)
	}
	keep := below(uint(pos % wordBits))
	w := b[wi]
	b[wi] = w&keep | (w&^keep)<<1
}

// Split cuts the bitmap at pos. head holds bits [0, pos); tail holds bits
// [pos, Len()) renumbered from zero. Both have the receiver's length and
// the receiver is left untouched.
func (b Bitmap) Split(pos int) (head, tail Bitmap) {
	head = make(Bitmap, len(b))
	tail = make(Bitmap, len(b))
	switch {
	case pos <= 0:
		copy(tail, b)
		return head, tail
	case pos >= b.Len():
		copy(head, b)
		return head, tail
	}

	ws, bs := pos/wordBits, uint(pos%wordBits)
	copy(head, b[:ws])
	head[ws] = b[ws] & below(bs)

	for j := 0; j+ws < len(b); j++ {
		w := b[j+ws] >> bs
		if bs != 0 && j+ws+1 < len(b) {
			w |= b[j+ws+1] << (wordBits - bs)
		}
		tail[j] = w
	}
	return head, tail
}

// below returns a mask of the bits strictly below bit n of a word.
func below(n uint) uint64 {
	return (1 << n) - 1
}

// upTo returns a mask of bits 0..n inclusive.
func upTo(n uint) uint64 {
	if n >= wordBits-1 {
		return ^uint64(0)
	}
	return (1 << (n + 1)) - 1
}
