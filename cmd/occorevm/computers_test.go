package main

import (
	"reflect"
	"testing"

	"github.com/occore/occore/internal/signal"
)

func TestParseSignalArgBool(t *testing.T) {
	if v := parseSignalArg("true"); v != true {
		t.Fatalf("got %v", v)
	}
	if v := parseSignalArg("false"); v != false {
		t.Fatalf("got %v", v)
	}
}

func TestParseSignalArgNumber(t *testing.T) {
	v := parseSignalArg("65")
	n, ok := v.(float64)
	if !ok || n != 65 {
		t.Fatalf("got %v (%T)", v, v)
	}
}

func TestParseSignalArgString(t *testing.T) {
	v := parseSignalArg("key_down")
	if v != "key_down" {
		t.Fatalf("got %v", v)
	}
}

func TestValueToScalarRoundTripsThroughScalarToValue(t *testing.T) {
	for _, raw := range []string{"true", "65", "key_down"} {
		v := scalarToValue(parseSignalArg(raw))
		s, err := valueToScalar(v)
		if err != nil {
			t.Fatalf("valueToScalar(%v): %v", v, err)
		}
		if got := scalarToValue(s); !reflect.DeepEqual(got, v) {
			t.Errorf("round trip for %q: got %+v, want %+v", raw, got, v)
		}
	}
}

func TestValueToScalarRejectsTable(t *testing.T) {
	_, err := valueToScalar(signal.Table(nil))
	if err == nil {
		t.Fatal("expected an error for a table value")
	}
}

func TestSignalParseLiteralFeedsSerialize(t *testing.T) {
	values, err := signal.Parse(`"key_down", 65, true`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wire, err := signal.Serialize(values)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if wire != `"key_down", 65, true` {
		t.Errorf("got %q", wire)
	}
}
