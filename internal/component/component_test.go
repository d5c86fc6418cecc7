package component

import "github.com/occore/occore/internal/signal"

// fakeOwner is a minimal Owner + ComponentResolver double for tests,
// standing in for machine.Computer.
type fakeOwner struct {
	address    string
	components map[string]Component
}

func (f *fakeOwner) Address() string                                 { return f.address }
func (f *fakeOwner) UptimeSeconds() float64                           { return 0 }
func (f *fakeOwner) TmpAddress() string                               { return "" }
func (f *fakeOwner) FreeMemory() int64                                { return 0 }
func (f *fakeOwner) TotalMemory() int64                               { return 0 }
func (f *fakeOwner) PushSignal(values []signal.Value) error           { return nil }
func (f *fakeOwner) PullSignal(timeout *float64) ([]signal.Value, bool) { return nil, false }
func (f *fakeOwner) Shutdown(reboot bool)                             {}

func (f *fakeOwner) ResolveComponent(addr string) (Component, bool) {
	c, ok := f.components[addr]
	return c, ok
}
