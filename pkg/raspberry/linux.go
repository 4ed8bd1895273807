//+build !windows

package raspberry

import (
	"sync"

	"github.com/warthog618/gpiod"
	"github.com/womat/debug"

	"gpiomon/pkg/port"
)

// Chip represents a single GPIO chip with one requested input port.
type Chip struct {
	gpiodChip  *gpiod.Chip
	gpiodLines *gpiod.Lines

	// bits maps a line offset to its bit number within the port
	bits map[int]int

	// sl guards state and handler
	sl sync.Mutex
	// state is the port snapshot maintained from line events
	state port.State
	// handler receives a snapshot on every level change
	handler func(port.State)
}

// Open opens a GPIO character device, e.g. "gpiochip0".
func Open(name string) (GPIO, error) {
	c, err := gpiod.NewChip(name)
	chip := Chip{gpiodChip: c, bits: map[int]int{}}
	return &chip, err
}

// RequestPort requests control of the given lines on the chip.
//   If granted, control is maintained until the Chip is closed.
//   The lines are watched for edge changes from the moment of the request;
//   changes are folded into the port snapshot and forwarded to the
//   watcher, if one is registered.
func (c *Chip) RequestPort(lines []int, terminator string) error {
	var err error

	if len(lines) == 0 || len(lines) > port.Width {
		return ErrInvalidParam
	}

	for bit, offset := range lines {
		c.bits[offset] = bit
	}

	// handler folds a single line event into the port snapshot
	handler := func(evt gpiod.LineEvent) {
		bit, ok := c.bits[evt.Offset]
		if !ok {
			debug.ErrorLog.Printf("event on unrequested line %v", evt.Offset)
			return
		}

		c.sl.Lock()
		switch evt.Type {
		case gpiod.LineEventRisingEdge:
			c.state |= 1 << bit
		case gpiod.LineEventFallingEdge:
			c.state &^= 1 << bit
		default:
			c.sl.Unlock()
			debug.ErrorLog.Printf("invalid event type: %v", evt.Type)
			return
		}
		snapshot := c.state
		h := c.handler
		c.sl.Unlock()

		if h != nil {
			h(snapshot)
		}
	}

	switch terminator {
	case "pullup":
		c.gpiodLines, err = c.gpiodChip.RequestLines(lines, gpiod.WithEventHandler(handler),
			gpiod.WithBothEdges, gpiod.AsInput, gpiod.WithPullUp)
	case "pulldown":
		c.gpiodLines, err = c.gpiodChip.RequestLines(lines, gpiod.WithEventHandler(handler),
			gpiod.WithBothEdges, gpiod.AsInput, gpiod.WithPullDown)
	case "none":
		c.gpiodLines, err = c.gpiodChip.RequestLines(lines, gpiod.WithEventHandler(handler),
			gpiod.WithBothEdges, gpiod.AsInput)
	default:
		return ErrInvalidParam
	}

	return err
}

// ReadPort reads the current level of all requested lines and resets
// the port snapshot to the read value.
func (c *Chip) ReadPort() (port.State, error) {
	values := make([]int, len(c.bits))
	if err := c.gpiodLines.Values(values); err != nil {
		return 0, err
	}

	var s port.State
	for bit, v := range values {
		if v != 0 {
			s |= 1 << bit
		}
	}

	c.sl.Lock()
	c.state = s
	c.sl.Unlock()

	return s, nil
}

// Watch the port for changes to line levels.
// The handler is called with the new full-port snapshot.
// There can only be one watcher on the port at a time.
func (c *Chip) Watch(handler func(port.State)) {
	c.sl.Lock()
	c.handler = handler
	c.sl.Unlock()
}

// Unwatch removes any watch from the port.
func (c *Chip) Unwatch() {
	c.sl.Lock()
	c.handler = nil
	c.sl.Unlock()
}

// EmuState emulates a port state on Windows systems
// not supported for linux
func (c *Chip) EmuState(s port.State) {
}

// Close releases all resources held by the requested lines and the chip.
//
// Note that this includes waiting for any running event handler to return.
// As a consequence the Close must not be called from the context of the
// event handler - the Close should be called from a different goroutine.
func (c *Chip) Close() error {
	if c.gpiodLines != nil {
		if err := c.gpiodLines.Close(); err != nil {
			return err
		}
	}
	return c.gpiodChip.Close()
}
