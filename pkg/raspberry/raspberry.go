// Package raspberry is the watcher for gpio input ports
package raspberry

import (
	"fmt"

	"gpiomon/pkg/port"
)

var ErrInvalidParam = fmt.Errorf("invalid parameters")

// GPIO is the interface of a gpio chip with one watched input port.
//
// The port is an ordered set of up to 32 lines; line n of the port maps
// to bit n of a port.State.
type GPIO interface {
	// RequestPort requests control of the given lines (BCM numbering).
	// The terminator selects the pull resistor: "pullup", "pulldown" or "none".
	RequestPort(lines []int, terminator string) error
	// ReadPort reads the current level of all requested lines.
	ReadPort() (port.State, error)
	// Watch registers the handler which is called with a full-port
	// snapshot whenever a line changes level.
	// There can only be one watcher on the port at a time.
	Watch(handler func(port.State))
	// Unwatch removes any watch from the port.
	Unwatch()
	// EmuState emulates a port state on Windows systems
	// not supported for linux
	EmuState(s port.State)
	// Close releases the requested lines and the chip.
	Close() error
}
