package hostapi

import (
	"testing"

	"github.com/occore/occore/internal/machine"
)

func TestClientListAndGetComputer(t *testing.T) {
	c := bootComputer(t, "main", `computer.pushSignal("boot")`)
	sock, cancel := startServer(t, []*machine.Computer{c})
	defer cancel()

	client := NewClient(sock)

	summaries, err := client.ListComputers()
	if err != nil {
		t.Fatalf("ListComputers: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "main" {
		t.Fatalf("got %+v", summaries)
	}

	detail, err := client.GetComputer("main")
	if err != nil {
		t.Fatalf("GetComputer: %v", err)
	}
	if len(detail.Components) != 1 || detail.Components[0].Type != "eeprom" {
		t.Fatalf("got %+v", detail)
	}
}

func TestClientGetComputerUnknownNameErrors(t *testing.T) {
	sock, cancel := startServer(t, nil)
	defer cancel()

	if _, err := NewClient(sock).GetComputer("ghost"); err == nil {
		t.Fatal("expected an error for an unknown computer")
	}
}

func TestClientPushSignalDeliversToQueue(t *testing.T) {
	c := bootComputer(t, "main", "")
	sock, cancel := startServer(t, []*machine.Computer{c})
	defer cancel()

	if err := NewClient(sock).PushSignal("main", []any{"key_down", 65.0, true}); err != nil {
		t.Fatalf("PushSignal: %v", err)
	}

	values, ok := c.PullSignal(nil)
	if !ok {
		t.Fatal("expected a signal to be queued")
	}
	if len(values) != 3 || values[0].Str != "key_down" {
		t.Fatalf("got %+v", values)
	}
}
