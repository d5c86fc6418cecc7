// Package component implements the component bus: the Component
// interface, its six concrete variants, and the registry a Computer uses
// to resolve addresses to live components.
//
// Layout mirrors the teacher's internal/agent package: one flat package,
// one file per concrete variant, all implementing a single interface
// (Component here, Agent there).
package component

import (
	"fmt"

	"github.com/occore/occore/internal/signal"
)

// Owner is the subset of machine.Computer a component needs to call
// back into — the self-reflective "computer" API surface and memory
// accounting — without internal/component importing internal/machine
// and creating a cycle.
type Owner interface {
	Address() string
	UptimeSeconds() float64
	TmpAddress() string
	FreeMemory() int64
	TotalMemory() int64
	PushSignal(values []signal.Value) error
	PullSignal(timeoutSeconds *float64) ([]signal.Value, bool)
	Shutdown(reboot bool)
}

// GuestError is a guest-surfaced failure: the component boundary never
// panics (spec.md §7), so any method validation or resolution failure
// comes back as one of these instead.
type GuestError struct {
	Message string
}

func (e *GuestError) Error() string { return e.Message }

func NewGuestError(format string, args ...any) *GuestError {
	return &GuestError{Message: fmt.Sprintf(format, args...)}
}

// Component is the uniform (address, name, type, invoke, methods)
// surface spec.md's Design Notes describe replacing the C++ base class
// with: a sum type over the six concrete variants, dispatch as an
// explicit match inside Invoke.
type Component interface {
	Address() string
	Name() string
	Type() string
	Methods() []string
	Invoke(owner Owner, method string, args []signal.Value) ([]signal.Value, error)
}
