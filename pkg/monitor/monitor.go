// Package monitor counts rising edges on a set of gpio lines and reports
// the accumulated count once per interval.
package monitor

import (
	"sync"
	"time"

	"github.com/womat/debug"
	"gpiomon/pkg/port"
)

// ReportFunc receives the drained edge count once per reporting interval.
// It is never called while the counter lock is held, so it may perform
// slow I/O.
type ReportFunc func(count uint64)

// Monitor watches a digital input port for rising edges on a set of
// monitored lines and accumulates an edge count.
//
// The count is shared between two contexts: OnStateChange (producer,
// driven by the hardware layer) and the reporting cycle (consumer,
// see Run). Both serialize on a single mutex; increment and
// read-and-reset are each indivisible with respect to the other.
type Monitor struct {
	// mask selects the monitored lines. Set once in New, read only
	// thereafter.
	mask port.Mask
	// previous is the last observed port state. Owned exclusively by
	// OnStateChange.
	previous port.State

	// cl guards count.
	cl sync.Mutex
	// count is the number of rising edges since the last drain.
	count uint64

	// report receives the drained count each interval.
	report ReportFunc
	// interval is the reporting period.
	interval time.Duration

	// quit stops the reporting cycle
	quit chan struct{}
	// done signals that the reporting cycle is stopped
	done chan struct{}
}

// New creates a Monitor for the given monitored lines.
//
// initial is the current port state and seeds the previous-state
// snapshot; lines that are already high therefore don't register a
// spurious edge on the first notification. Register OnStateChange
// with the hardware layer only after New has returned, then there is
// no window where a notification meets an unseeded snapshot.
func New(mask port.Mask, initial port.State, interval time.Duration, report ReportFunc) *Monitor {
	return &Monitor{
		mask:     mask,
		previous: initial,
		interval: interval,
		report:   report,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// OnStateChange is the hardware notification entry point. new is the
// full-port snapshot after the change.
//
// Lines that went from low to high and are selected by the monitored
// mask are added to the edge count. The previous-state snapshot is
// replaced unconditionally, also when no monitored line changed;
// detection on the next call depends on it.
//
// OnStateChange never blocks beyond the counter increment and must not
// be called concurrently with itself; the hardware layer delivers
// notifications one at a time. Calls concurrent with a drain are safe.
func (m *Monitor) OnStateChange(new port.State) {
	rising := port.Rising(m.previous, new, m.mask)
	m.previous = new

	if rising == 0 {
		return
	}

	m.cl.Lock()
	m.count += uint64(rising.Count())
	m.cl.Unlock()
}

// Drain returns the accumulated edge count and resets it to zero in
// one indivisible step. A count of zero is a valid result, not an
// error.
func (m *Monitor) Drain() uint64 {
	m.cl.Lock()
	defer m.cl.Unlock()

	c := m.count
	m.count = 0
	return c
}

// Run is the reporting cycle: each interval the accumulated count is
// drained and handed to the report function, outside the counter lock.
// Run blocks until Stop is called and is designed to run in a separate
// go function, e.g.: go m.Run()
func (m *Monitor) Run() {
	defer close(m.done)

	t := time.NewTicker(m.interval)
	defer t.Stop()

	for {
		select {
		case <-m.quit:
			return
		case <-t.C:
			c := m.Drain()
			debug.TraceLog.Printf("reporting %v rising edges", c)
			m.report(c)
		}
	}
}

// Stop terminates the reporting cycle and waits until it has finished.
// The edge count is not drained; a final Drain is up to the caller.
func (m *Monitor) Stop() {
	close(m.quit)
	<-m.done
}

// Mask returns the monitored line mask.
func (m *Monitor) Mask() port.Mask {
	return m.mask
}
