package scripting

import (
	"errors"
	"strings"
	"testing"

	"github.com/occore/occore/internal/component"
	"github.com/occore/occore/internal/signal"
)

type fakeOwner struct {
	address    string
	onShutdown func()
}

func (f *fakeOwner) Address() string       { return f.address }
func (f *fakeOwner) UptimeSeconds() float64 { return 1 }
func (f *fakeOwner) TmpAddress() string    { return "tmp1" }
func (f *fakeOwner) FreeMemory() int64     { return 100 }
func (f *fakeOwner) TotalMemory() int64    { return 256 }
func (f *fakeOwner) PushSignal(values []signal.Value) error { return nil }
func (f *fakeOwner) PullSignal(timeout *float64) ([]signal.Value, bool) {
	return nil, false
}
// Shutdown cancels the host the way machine.Computer.Shutdown does.
func (f *fakeOwner) Shutdown(reboot bool) {
	if f.onShutdown != nil {
		f.onShutdown()
	}
}

type fakeBus struct{}

func (fakeBus) ResolveComponent(addr string) (component.Component, bool) { return nil, false }
func (fakeBus) ListComponents(filter string, exact bool) []component.AddressType { return nil }

func TestHostRunShutdownReturnsErrHalted(t *testing.T) {
	h := NewHost(64 * 1024 * 1024)
	defer h.Close()

	owner := &fakeOwner{address: "c1", onShutdown: h.Cancel}
	src := strings.NewReader(`computer.pushSignal("boot"); computer.shutdown(false)`)

	err := h.Run(owner, fakeBus{}, src)
	if !errors.Is(err, ErrHalted) {
		t.Fatalf("expected ErrHalted, got %v", err)
	}
}

func TestHostRunCrashReturnsWrappedError(t *testing.T) {
	h := NewHost(64 * 1024 * 1024)
	defer h.Close()

	owner := &fakeOwner{address: "c1"}
	src := strings.NewReader(`error("boom")`)

	err := h.Run(owner, fakeBus{}, src)
	if err == nil || errors.Is(err, ErrHalted) {
		t.Fatalf("expected a guest-crashed error, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected crash message to be preserved, got %v", err)
	}
}

func TestHostFreeMemoryNeverExceedsCeiling(t *testing.T) {
	h := NewHost(1024)
	defer h.Close()
	if got := h.FreeMemory(); got > 1024 || got < 0 {
		t.Errorf("FreeMemory out of range: %d", got)
	}
}
