package bitsearch

// step is one node of the decision table: if the masked half of the word
// holds the answer the search stays there, otherwise it narrows to the
// other half by shifting.
type step struct {
	mask  uint64
	shift uint
}

// lowSteps narrows a non-zero word until its lowest set bit is in the low
// nibble. Each row halves the window (32, 16, 8, 4 bits).
var lowSteps = [...]step{
	{0x00000000FFFFFFFF, 32},
	{0x000000000000FFFF, 16},
	{0x00000000000000FF, 8},
	{0x000000000000000F, 4},
}

// highSteps narrows a non-zero word until its highest set bit is in the
// low nibble.
var highSteps = [...]step{
	{0xFFFFFFFF00000000, 32},
	{0x00000000FFFF0000, 16},
	{0x000000000000FF00, 8},
	{0x00000000000000F0, 4},
}

// lowNibble[n] is the index of the lowest set bit of n, -1 for zero.
var lowNibble = [16]int8{-1, 0, 1, 0, 2, 0, 1, 0, 3, 0, 1, 0, 2, 0, 1, 0}

// highNibble[n] is the index of the highest set bit of n, -1 for zero.
var highNibble = [16]int8{-1, 0, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3}

// lowest returns the index of the lowest set bit of w, or -1 if w is zero.
func lowest(w uint64) int {
	if w == 0 {
		return -1
	}
	n := 0
	for _, s := range lowSteps {
		if w&s.mask == 0 {
			w >>= s.shift
			n += int(s.shift)
		}
	}
	return n + int(lowNibble[w&0xF])
}

// highest returns the index of the highest set bit of w, or -1 if w is zero.
func highest(w uint64) int {
	if w == 0 {
		return -1
	}
	n := 0
	for _, s := range highSteps {
		if w&s.mask != 0 {
			w >>= s.shift
			n += int(s.shift)
		}
	}
	return n + int(highNibble[w&0xF])
}
