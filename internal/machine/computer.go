// Package machine implements Computer, the top-level object spec.md §5
// describes: an address, a memory ceiling, a signal queue, a component
// registry, and the scripting host running its guest program on its
// own goroutine. Grounded in original_source's Computer class
// (computer.h/computer.cpp) and boot_computer/emulate_computer in
// lua_bridge.cpp.
package machine

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/occore/occore/internal/component"
	"github.com/occore/occore/internal/scripting"
	"github.com/occore/occore/internal/signal"
)

// Computer owns one guest program: its component bus, its signal
// queue, and the scripting.Host executing its boot EEPROM. It
// implements component.Owner and component.ComponentResolver so
// internal/component and internal/builtins never import this package.
type Computer struct {
	address       string
	name          string
	startTime     time.Time
	memoryCeiling int64
	tmpAddress    string
	queueCapacity int

	registry *component.Registry
	queue    *signal.Queue
	host     *scripting.Host

	mu       sync.Mutex
	shutdown bool
	reboot   bool
}

func NewComputer(address, name string, memoryCeiling int64, queueCapacity int, components []component.Component, tmpAddress string) *Computer {
	return &Computer{
		address:       address,
		name:          name,
		startTime:     time.Now(),
		memoryCeiling: memoryCeiling,
		tmpAddress:    tmpAddress,
		queueCapacity: queueCapacity,
		registry:      component.NewRegistry(components),
		queue:         signal.NewQueue(queueCapacity),
		host:          scripting.NewHost(memoryCeiling),
	}
}

func (c *Computer) Name() string { return c.name }

// --- component.Owner ---

func (c *Computer) Address() string       { return c.address }
func (c *Computer) UptimeSeconds() float64 { return time.Since(c.startTime).Seconds() }
func (c *Computer) TmpAddress() string    { return c.tmpAddress }
func (c *Computer) TotalMemory() int64    { return c.memoryCeiling }
func (c *Computer) FreeMemory() int64     { return c.host.FreeMemory() }

func (c *Computer) PushSignal(values []signal.Value) error {
	c.queue.Push(values)
	return nil
}

func (c *Computer) PullSignal(timeoutSeconds *float64) ([]signal.Value, bool) {
	if timeoutSeconds == nil {
		return c.queue.Pull(nil)
	}
	deadline := time.Now().Add(time.Duration(*timeoutSeconds * float64(time.Second)))
	return c.queue.Pull(&deadline)
}

func (c *Computer) Shutdown(reboot bool) {
	c.mu.Lock()
	c.shutdown = true
	c.reboot = reboot
	c.mu.Unlock()
	c.host.Cancel()
	c.queue.Close()
}

// --- component.ComponentResolver / builtins.Bus ---

func (c *Computer) ResolveComponent(addr string) (component.Component, bool) {
	return c.registry.ByAddress(addr)
}

func (c *Computer) ListComponents(filter string, exact bool) []component.AddressType {
	return c.registry.List(filter, exact)
}

// Components returns the full, registration-order component list, for
// host-facing inspection (internal/hostapi's GET /computers/{name}).
func (c *Computer) Components() []component.Component {
	return c.registry.Enumerate()
}

// RebootRequested reports whether the last Run ended via
// computer.shutdown(true).
func (c *Computer) RebootRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reboot
}

// Reboot discards the current scripting host (and any guest state it
// held) and prepares a fresh one for the next Run, matching the
// original's "rebooting isn't supported, please restart manually"
// caveat by giving the daemon an explicit restart step rather than an
// automatic in-place VM reset.
func (c *Computer) Reboot() {
	c.host.Close()
	c.host = scripting.NewHost(c.memoryCeiling)
	c.queue = signal.NewQueue(c.queueCapacity)
	c.mu.Lock()
	c.shutdown = false
	c.reboot = false
	c.mu.Unlock()
}

// Close releases the scripting host and wakes any guest blocked in an
// untimed pullSignal, cancelling any still-running guest program.
func (c *Computer) Close() {
	c.host.Close()
	c.queue.Close()
}

// Run boots from the computer's eeprom component and blocks until the
// guest program halts, crashes, or is shut down. Grounded in
// original_source's boot_computer, which locates the Eeprom component
// among the computer's components and feeds its primary blob to
// emulate_computer as the boot chunk.
func (c *Computer) Run() error {
	var eeprom *component.Eeprom
	for _, comp := range c.registry.Enumerate() {
		if e, ok := comp.(*component.Eeprom); ok {
			eeprom = e
			break
		}
	}
	if eeprom == nil {
		return fmt.Errorf("machine: computer %s has no eeprom component to boot from", c.name)
	}
	return c.host.Run(c, c, bytes.NewReader(eeprom.Primary()))
}
