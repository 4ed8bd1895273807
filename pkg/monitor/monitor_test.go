package monitor

import (
	"sync"
	"testing"
	"time"

	"gpiomon/pkg/port"
)

// drop discards reports; used where the test drains by hand.
func drop(uint64) {}

// notify feeds a sequence of port state notifications to the monitor.
func notify(m *Monitor, states ...port.State) {
	for _, s := range states {
		m.OnStateChange(s)
	}
}

func TestDrainScenarios(t *testing.T) {
	tests := []struct {
		name     string
		mask     port.Mask
		initial  port.State
		sequence []port.State
		want     uint64
	}{
		{"mixed sequence", 0x0F, 0x00, []port.State{0x03, 0x07, 0x07, 0x05, 0x0F}, 5},
		{"masked subset", 0x05, 0x00, []port.State{0x0F}, 2},
		{"empty mask", 0x00, 0x00, []port.State{0xFF}, 0},
		{"toggling line", 0xFF, 0x00, []port.State{0x01, 0x03, 0x01, 0x03}, 3},
		{"simultaneous rise", 0xFF, 0x00, []port.State{0xFF}, 8},
		{"no notifications", 0xFF, 0x00, nil, 0},
		{"seeded high lines", 0xFF, 0x0F, []port.State{0x0F}, 0},
		{"falling then rising", 0x01, 0x01, []port.State{0x00, 0x01}, 1},
	}

	for _, tt := range tests {
		m := New(tt.mask, tt.initial, time.Second, drop)
		notify(m, tt.sequence...)

		if got := m.Drain(); got != tt.want {
			t.Errorf("%s: Drain() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDrainResetsCounter(t *testing.T) {
	m := New(0xFF, 0x00, time.Second, drop)
	notify(m, 0x01, 0x03, 0x07)

	if got := m.Drain(); got != 3 {
		t.Errorf("first Drain() = %v, want 3", got)
	}
	if got := m.Drain(); got != 0 {
		t.Errorf("second Drain() = %v, want 0", got)
	}

	// edges after a drain count towards the next drain only
	notify(m, 0x0F)
	if got := m.Drain(); got != 1 {
		t.Errorf("Drain() after new edge = %v, want 1", got)
	}
}

func TestRepeatedNotificationIsIdempotent(t *testing.T) {
	m := New(0xFF, 0x00, time.Second, drop)

	m.OnStateChange(0x0F)
	m.OnStateChange(0x0F)
	m.OnStateChange(0x0F)

	if got := m.Drain(); got != 4 {
		t.Errorf("Drain() = %v, want 4", got)
	}
}

func TestMaskExclusivity(t *testing.T) {
	m := New(0x02, 0x00, time.Second, drop)

	// lines outside the mask toggle wildly, line 1 rises twice
	notify(m, 0xFD, 0x02, 0xFD, 0x02, 0xFF)

	if got := m.Drain(); got != 2 {
		t.Errorf("Drain() = %v, want 2", got)
	}
}

func TestConcurrentDrains(t *testing.T) {
	const edges = 10000

	m := New(0x01, 0x00, time.Second, drop)

	var wg sync.WaitGroup
	var drained uint64
	done := make(chan struct{})

	// consumer drains continuously while the producer toggles the line
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			drained += m.Drain()
			select {
			case <-done:
				return
			default:
			}
		}
	}()

	for i := 0; i < edges; i++ {
		m.OnStateChange(0x01)
		m.OnStateChange(0x00)
	}
	close(done)
	wg.Wait()

	drained += m.Drain()
	if drained != edges {
		t.Errorf("sum of drains = %v, want %v", drained, edges)
	}
}

func TestRunReportsEachInterval(t *testing.T) {
	reports := make(chan uint64, 16)
	m := New(0xFF, 0x00, 10*time.Millisecond, func(c uint64) { reports <- c })

	notify(m, 0x01, 0x03)

	go m.Run()
	defer m.Stop()

	select {
	case got := <-reports:
		if got != 2 {
			t.Fatalf("first report = %v, want 2", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no report within deadline")
	}

	// an idle interval reports zero, not nothing
	select {
	case got := <-reports:
		if got != 0 {
			t.Fatalf("idle report = %v, want 0", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no idle report within deadline")
	}
}

func TestStopTerminatesRun(t *testing.T) {
	m := New(0xFF, 0x00, 5*time.Millisecond, drop)

	stopped := make(chan struct{})
	go func() {
		m.Run()
		close(stopped)
	}()

	time.Sleep(20 * time.Millisecond)
	m.Stop()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not terminate after Stop")
	}
}

func TestMask(t *testing.T) {
	m := New(0x2A, 0x00, time.Second, drop)
	if got := m.Mask(); got != 0x2A {
		t.Errorf("Mask() = %#x, want 0x2a", got)
	}
}
