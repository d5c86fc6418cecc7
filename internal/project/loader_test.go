package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func writeTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "components", "bios.eeprom", "primary.lua"), `computer.shutdown(false)`)
	writeFile(t, filepath.Join(root, "components", "kbd.keyboard", "address.txt"), "kbd-addr\n")
	writeFile(t, filepath.Join(root, "computers", "main", "components.txt"), "bios\nkbd\n")
	writeFile(t, filepath.Join(root, "computers", "main", "memory.txt"), "262144")

	return root
}

func TestLoaderAssignsAddressesAndPersistsThem(t *testing.T) {
	root := writeTestProject(t)
	l := NewLoader()

	components, computers, err := l.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(components))
	}
	if len(computers) != 1 {
		t.Fatalf("expected 1 computer, got %d", len(computers))
	}
	if computers[0].Name != "main" || len(computers[0].Components) != 2 {
		t.Errorf("got %+v", computers[0])
	}

	var biosAddr string
	for _, c := range components {
		if c.Name == "bios" {
			biosAddr = c.Address
		}
	}
	if biosAddr == "" {
		t.Fatal("expected an address.txt to be generated for bios.eeprom")
	}

	// Loading again must return the same persisted address.
	components2, _, err := l.Load(root)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	for _, c := range components2 {
		if c.Name == "bios" && c.Address != biosAddr {
			t.Errorf("address changed between loads: %s != %s", c.Address, biosAddr)
		}
	}
}

func TestLoaderSkipsUnknownDirectoryKinds(t *testing.T) {
	root := writeTestProject(t)
	writeFile(t, filepath.Join(root, "components", "stray.notakind", "address.txt"), "x\n")

	l := NewLoader()
	components, _, err := l.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, c := range components {
		if c.Kind == "notakind" {
			t.Error("expected unknown-kind directory to be skipped")
		}
	}
}
