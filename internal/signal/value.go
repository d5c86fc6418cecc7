// Package signal implements the typed signal value, the serialiser that
// turns a sequence of values into the wire format described by the
// component bus, and the blocking FIFO that connects a host input thread
// to a guest's pullSignal calls.
//
// The original emulator serialises pushSignal arguments to guest-language
// source text and re-evaluates that text to decode them. Design Notes
// flags this as worth replacing with "a strongly-typed signal value"
// whose conversion to/from the guest happens only at the bus boundary —
// that's what Value is.
package signal

import "fmt"

// Kind tags which variant a Value holds.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindTable
)

// Pair is one table entry; Table is represented as an ordered list of
// pairs rather than a map so re-serialisation is deterministic.
type Pair struct {
	Key   Value
	Value Value
}

// Value is a scalar or table value flowing across the component bus and
// through the signal queue: the union spec.md's Design Notes calls for
// in place of the source's serialise-then-reevaluate approach.
type Value struct {
	Kind  Kind
	Bool  bool
	Num   float64
	Str   string
	Table []Pair
}

func Nil() Value               { return Value{Kind: KindNil} }
func Bool(b bool) Value        { return Value{Kind: KindBool, Bool: b} }
func Number(n float64) Value   { return Value{Kind: KindNumber, Num: n} }
func String(s string) Value    { return Value{Kind: KindString, Str: s} }
func Table(pairs []Pair) Value { return Value{Kind: KindTable, Table: pairs} }

func (v Value) IsNil() bool { return v.Kind == KindNil }

func (v Value) String_() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("%v", v.Bool)
	case KindNumber:
		return fmt.Sprintf("%v", v.Num)
	case KindString:
		return v.Str
	case KindTable:
		return "table"
	default:
		return "?"
	}
}
