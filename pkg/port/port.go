// Package port holds the definition of a physical input port
package port

import "math/bits"

// Width is the maximum number of lines a port can carry.
const Width = 32

// State is a snapshot of a digital input port, one bit per line.
// Bit n holds the level of line n (1 = high).
type State uint32

// Mask selects the lines of a port that take part in edge counting.
type Mask = State

// Rising returns the lines that were low in prev, are high in new
// and are selected by mask.
func Rising(prev, new State, mask Mask) State {
	return (^prev & new) & mask
}

// Count returns the number of set bits of the state.
func (s State) Count() int {
	return bits.OnesCount32(uint32(s))
}

// Bit reports whether line n is high.
func (s State) Bit(n int) bool {
	return s&(1<<n) != 0
}

// MaskOf builds a Mask from a list of line numbers.
// Line numbers outside the port width are ignored.
func MaskOf(lines ...int) Mask {
	var m Mask
	for _, n := range lines {
		if n < 0 || n >= Width {
			continue
		}
		m |= 1 << n
	}
	return m
}
