package component

import "github.com/occore/occore/internal/signal"

const (
	eepromMaxPrimarySize   = 4096
	eepromMaxSecondarySize = 256
)

// Eeprom holds the boot ROM: a primary blob (the program the scripting
// host loads at boot) and a small secondary blob, both file-backed and
// read-through, grounded in components.cpp's Eeprom::invoke.
type Eeprom struct {
	address   string
	name      string
	primary   []byte
	secondary []byte
	label     string
}

func NewEeprom(address, name string, primary, secondary []byte, label string) *Eeprom {
	return &Eeprom{
		address:   address,
		name:      name,
		primary:   boundBytes(primary, eepromMaxPrimarySize),
		secondary: boundBytes(secondary, eepromMaxSecondarySize),
		label:     label,
	}
}

func boundBytes(b []byte, max int) []byte {
	if len(b) > max {
		return b[:max]
	}
	return b
}

func (e *Eeprom) Address() string { return e.address }
func (e *Eeprom) Name() string    { return e.name }
func (e *Eeprom) Type() string    { return "eeprom" }

func (e *Eeprom) Methods() []string {
	return []string{"get", "getData", "getSize", "getDataSize", "getLabel"}
}

// Primary returns the boot blob, used by the scripting host to load the
// initial chunk — not part of the guest-facing Invoke surface.
func (e *Eeprom) Primary() []byte { return e.primary }

func (e *Eeprom) Invoke(owner Owner, method string, args []signal.Value) ([]signal.Value, error) {
	switch method {
	case "get":
		return []signal.Value{signal.String(string(e.primary))}, nil
	case "getData":
		return []signal.Value{signal.String(string(e.secondary))}, nil
	case "getSize":
		return []signal.Value{signal.Number(eepromMaxPrimarySize)}, nil
	case "getDataSize":
		return []signal.Value{signal.Number(eepromMaxSecondarySize)}, nil
	case "getLabel":
		return []signal.Value{signal.String(e.label)}, nil
	default:
		return nil, NewGuestError("eeprom: no such method: %s", method)
	}
}
