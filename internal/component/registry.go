package component

import "strings"

// Registry is a Computer's ordered, immutable-after-boot component list
// (spec.md §4.2): linear scan lookups by address or name, plus the
// type()/list() bus primitives.
type Registry struct {
	components []Component
}

func NewRegistry(components []Component) *Registry {
	return &Registry{components: append([]Component(nil), components...)}
}

func (r *Registry) ByAddress(addr string) (Component, bool) {
	for _, c := range r.components {
		if c.Address() == addr {
			return c, true
		}
	}
	return nil, false
}

func (r *Registry) ByName(name string) (Component, bool) {
	for _, c := range r.components {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Enumerate returns the full component list in registration order.
func (r *Registry) Enumerate() []Component {
	return append([]Component(nil), r.components...)
}

// List returns address->type pairs for components whose type matches
// filter: exact equality if exact is true, substring match otherwise;
// an empty filter matches everything. Order matches Enumerate, which is
// what the guest-facing __call iterator metatable walks over.
func (r *Registry) List(filter string, exact bool) []AddressType {
	var out []AddressType
	for _, c := range r.components {
		if filter == "" || (exact && c.Type() == filter) || (!exact && strings.Contains(c.Type(), filter)) {
			out = append(out, AddressType{Address: c.Address(), Type: c.Type()})
		}
	}
	return out
}

// AddressType is one entry of a List() result.
type AddressType struct {
	Address string
	Type    string
}
