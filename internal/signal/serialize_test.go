package signal

import "testing"

func TestSerializeScalarRoundtrip(t *testing.T) {
	in := []Value{String("key_down"), String("kbd-1"), Number(97), Number(0x1E), String("user")}
	wire, err := Serialize(in)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	out, err := Parse(wire)
	if err != nil {
		t.Fatalf("Parse(%q): %v", wire, err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d values, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i].Kind != out[i].Kind || in[i].String_() != out[i].String_() {
			t.Errorf("value %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestSerializeEscapesSpecialCharacters(t *testing.T) {
	wire, err := Serialize([]Value{String("a\"b\nc\\d\te")})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	out, err := Parse(wire)
	if err != nil {
		t.Fatalf("Parse(%q): %v", wire, err)
	}
	if out[0].Str != "a\"b\nc\\d\te" {
		t.Errorf("got %q", out[0].Str)
	}
}

func TestSerializeNilBoolRoundtrip(t *testing.T) {
	wire, err := Serialize([]Value{Nil(), Bool(true), Bool(false)})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if wire != "nil, true, false" {
		t.Fatalf("got %q", wire)
	}
	out, err := Parse(wire)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !out[0].IsNil() || out[1].Bool != true || out[2].Bool != false {
		t.Errorf("got %+v", out)
	}
}

func TestSerializeTableRoundtrip(t *testing.T) {
	tbl := Table([]Pair{{Key: Number(1), Value: String("a")}, {Key: Number(2), Value: String("b")}})
	wire, err := Serialize([]Value{tbl})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	out, err := Parse(wire)
	if err != nil {
		t.Fatalf("Parse(%q): %v", wire, err)
	}
	if out[0].Kind != KindTable || len(out[0].Table) != 2 {
		t.Fatalf("got %+v", out[0])
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	if _, err := Parse(`"ok" garbage`); err == nil {
		t.Fatal("expected error for trailing garbage")
	}
}
