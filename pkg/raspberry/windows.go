//+build windows

package raspberry

import (
	"sync"

	"gpiomon/pkg/port"
)

// Chip emulates a GPIO chip with one input port on Windows systems.
type Chip struct {
	lines []int

	// sl guards state and handler
	sl      sync.Mutex
	state   port.State
	handler func(port.State)
}

// Open opens an emulated GPIO chip.
func Open(name string) (GPIO, error) {
	return &Chip{}, nil
}

// RequestPort requests control of the given lines on the chip.
func (c *Chip) RequestPort(lines []int, terminator string) error {
	if len(lines) == 0 || len(lines) > port.Width {
		return ErrInvalidParam
	}

	switch terminator {
	case "pullup", "pulldown", "none":
	default:
		return ErrInvalidParam
	}

	c.lines = lines
	return nil
}

// ReadPort reads the current level of the emulated port.
func (c *Chip) ReadPort() (port.State, error) {
	c.sl.Lock()
	defer c.sl.Unlock()
	return c.state, nil
}

// Watch the port for changes to line levels.
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

// EmuState emulates a level change of the port.
// The registered watcher is called like on a real line event.
func (c *Chip) EmuState(s port.State) {
	c.sl.Lock()
	c.state = s
	h := c.handler
	c.sl.Unlock()

	if h != nil {
		h(s)
	}
}

// Close releases the emulated chip.
func (c *Chip) Close() error {
	return nil
}
