package store

import "testing"

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndGetComputer(t *testing.T) {
	s := openTestStore(t)

	c := &Computer{Name: "main", Address: "addr-1", MemoryCeiling: 256 * 1024}
	if err := s.UpsertComputer(c); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetComputer("main")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Address != "addr-1" || got.MemoryCeiling != 256*1024 {
		t.Fatalf("got %+v", got)
	}

	// Upsert again with a different address replaces the row rather
	// than erroring on the primary key.
	c.Address = "addr-2"
	if err := s.UpsertComputer(c); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err = s.GetComputer("main")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Address != "addr-2" {
		t.Errorf("address = %q, want addr-2", got.Address)
	}
}

func TestGetComputerMissingReturnsNil(t *testing.T) {
	s := openTestStore(t)
	got, err := s.GetComputer("ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unregistered computer, got %+v", got)
	}
}

func TestListComputersOrdersByName(t *testing.T) {
	s := openTestStore(t)
	s.UpsertComputer(&Computer{Name: "zeta", Address: "a1", MemoryCeiling: 1024})
	s.UpsertComputer(&Computer{Name: "alpha", Address: "a2", MemoryCeiling: 1024})

	list, err := s.ListComputers()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "zeta" {
		t.Fatalf("got %+v", list)
	}
}
