package port

import (
	"math/bits"
	"math/rand"
	"testing"
)

func TestRising(t *testing.T) {
	tests := []struct {
		name string
		prev State
		new  State
		mask Mask
		want State
	}{
		{"no change", 0x03, 0x03, 0xFF, 0x00},
		{"single rise", 0x00, 0x01, 0xFF, 0x01},
		{"rise outside mask", 0x00, 0xF0, 0x0F, 0x00},
		{"falling only", 0x0F, 0x00, 0xFF, 0x00},
		{"rise and fall", 0x05, 0x0A, 0xFF, 0x0A},
		{"masked subset", 0x00, 0x0F, 0x05, 0x05},
		{"all lines rise", 0x00000000, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF},
		{"high bit", 0x00000000, 0x80000000, 0x80000000, 0x80000000},
	}

	for _, tt := range tests {
		if got := Rising(tt.prev, tt.new, tt.mask); got != tt.want {
			t.Errorf("%s: Rising(%#x, %#x, %#x) = %#x, want %#x",
				tt.name, tt.prev, tt.new, tt.mask, got, tt.want)
		}
	}
}

func TestRisingMatchesPopcount(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		prev := State(r.Uint32())
		new := State(r.Uint32())
		mask := Mask(r.Uint32())

		want := bits.OnesCount32(uint32((^prev & new) & mask))
		if got := Rising(prev, new, mask).Count(); got != want {
			t.Fatalf("Rising(%#x, %#x, %#x).Count() = %v, want %v", prev, new, mask, got, want)
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		s    State
		want int
	}{
		{0x00, 0},
		{0x01, 1},
		{0x05, 2},
		{0xFF, 8},
		{0xFFFFFFFF, 32},
	}

	for _, tt := range tests {
		if got := tt.s.Count(); got != tt.want {
			t.Errorf("State(%#x).Count() = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestMaskOf(t *testing.T) {
	tests := []struct {
		name  string
		lines []int
		want  Mask
	}{
		{"empty", nil, 0x00},
		{"first line", []int{0}, 0x01},
		{"three lines", []int{0, 1, 3}, 0x0B},
		{"out of range ignored", []int{0, 32, -1}, 0x01},
		{"last line", []int{31}, 0x80000000},
	}

	for _, tt := range tests {
		if got := MaskOf(tt.lines...); got != tt.want {
			t.Errorf("%s: MaskOf(%v) = %#x, want %#x", tt.name, tt.lines, got, tt.want)
		}
	}
}

func TestBit(t *testing.T) {
	s := State(0x05)

	if !s.Bit(0) || s.Bit(1) || !s.Bit(2) {
		t.Errorf("State(%#x): unexpected bit levels", s)
	}
}
