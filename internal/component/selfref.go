package component

import "github.com/occore/occore/internal/signal"

// SelfRef is the self-reflective "computer" component (spec.md §4.9):
// like ComputerComponent in components.cpp, it exposes no invoke
// methods itself — the computer.* guest API is bound directly into the
// Lua environment by internal/builtins rather than routed through
// Invoke.
type SelfRef struct {
	address string
	name    string
}

func NewSelfRef(address, name string) *SelfRef {
	return &SelfRef{address: address, name: name}
}

func (c *SelfRef) Address() string   { return c.address }
func (c *SelfRef) Name() string      { return c.name }
func (c *SelfRef) Type() string      { return "computer" }
func (c *SelfRef) Methods() []string { return nil }

func (c *SelfRef) Invoke(owner Owner, method string, args []signal.Value) ([]signal.Value, error) {
	return nil, NewGuestError("computer: no such method: %s", method)
}
