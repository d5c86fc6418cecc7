package component

import "github.com/occore/occore/internal/signal"

// Keyboard is a placeholder component: like the original's Keyboard
// class, it exposes no invoke methods of its own. Its guest-visible
// behaviour is entirely the key_down/key_up signals the host input
// pump pushes onto the owning Computer's signal queue; Invoke here only
// exists to satisfy the Component interface and always fails, matching
// components.cpp's Keyboard::invoke (empty method chain).
type Keyboard struct {
	address string
	name    string
}

func NewKeyboard(address, name string) *Keyboard {
	return &Keyboard{address: address, name: name}
}

func (k *Keyboard) Address() string   { return k.address }
func (k *Keyboard) Name() string      { return k.name }
func (k *Keyboard) Type() string      { return "keyboard" }
func (k *Keyboard) Methods() []string { return nil }

func (k *Keyboard) Invoke(owner Owner, method string, args []signal.Value) ([]signal.Value, error) {
	return nil, NewGuestError("keyboard: no such method: %s", method)
}
