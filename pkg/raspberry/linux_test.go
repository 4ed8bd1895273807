//+build !windows

package raspberry

import "testing"

// Requesting lines needs real gpio hardware; only the parameter
// validation is testable here.
func TestRequestPortParams(t *testing.T) {
	tooMany := make([]int, 33)
	for i := range tooMany {
		tooMany[i] = i
	}

	tests := []struct {
		name       string
		lines      []int
		terminator string
	}{
		{"no lines", nil, "pullup"},
		{"too many lines", tooMany, "pullup"},
		{"bad terminator", []int{17}, "floating"},
	}

	for _, tt := range tests {
		c := &Chip{bits: map[int]int{}}
		if err := c.RequestPort(tt.lines, tt.terminator); err != ErrInvalidParam {
			t.Errorf("%s: RequestPort() = %v, want ErrInvalidParam", tt.name, err)
		}
	}
}
