// Package project reads the on-disk project layout spec.md §6 defines
// and turns it into live component.Component/machine.Computer values.
// Grounded in original_source's Component::load_components (scanning
// components/) and the Computer constructor (reading a computer's own
// directory).
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/occore/occore/internal/interfaces"
)

// componentKinds are the directory-suffix kinds spec.md §6 names.
var componentKinds = map[string]bool{
	"eeprom": true, "filesystem": true, "screen": true,
	"gpu": true, "keyboard": true, "internet": true,
}

// Loader implements interfaces.ProjectLoader against the standard
// <project>/components, <project>/computers layout.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

func (l *Loader) Load(projectDir string) ([]interfaces.ComponentDescriptor, []interfaces.ComputerDescriptor, error) {
	components, err := l.loadComponents(filepath.Join(projectDir, "components"))
	if err != nil {
		return nil, nil, err
	}
	computers, err := l.loadComputers(filepath.Join(projectDir, "computers"))
	if err != nil {
		return nil, nil, err
	}
	return components, computers, nil
}

func (l *Loader) loadComponents(componentsDir string) ([]interfaces.ComponentDescriptor, error) {
	entries, err := os.ReadDir(componentsDir)
	if err != nil {
		return nil, fmt.Errorf("project: reading %s: %w", componentsDir, err)
	}

	var out []interfaces.ComponentDescriptor
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name, kind, ok := splitKind(entry.Name())
		if !ok || !componentKinds[kind] {
			continue
		}
		dir := filepath.Join(componentsDir, entry.Name())
		addr, err := readOrCreateAddress(dir)
		if err != nil {
			return nil, err
		}
		out = append(out, interfaces.ComponentDescriptor{
			Address: addr, Name: name, Kind: kind, Dir: dir,
		})
	}
	return out, nil
}

func (l *Loader) loadComputers(computersDir string) ([]interfaces.ComputerDescriptor, error) {
	entries, err := os.ReadDir(computersDir)
	if err != nil {
		return nil, fmt.Errorf("project: reading %s: %w", computersDir, err)
	}

	var out []interfaces.ComputerDescriptor
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(computersDir, entry.Name())
		addr, err := readOrCreateAddress(dir)
		if err != nil {
			return nil, err
		}
		names, err := readLines(filepath.Join(dir, "components.txt"))
		if err != nil {
			return nil, fmt.Errorf("project: computer %s: %w", entry.Name(), err)
		}
		out = append(out, interfaces.ComputerDescriptor{
			Address: addr, Name: entry.Name(), Dir: dir, Components: names,
		})
	}
	return out, nil
}

// splitKind splits "foo.eeprom" into ("foo", "eeprom").
func splitKind(dirName string) (name, kind string, ok bool) {
	idx := strings.LastIndex(dirName, ".")
	if idx < 0 {
		return "", "", false
	}
	return dirName[:idx], dirName[idx+1:], true
}

// readOrCreateAddress reads <dir>/address.txt, generating and
// persisting a fresh UUID the first time a component or computer
// directory is loaded without one.
func readOrCreateAddress(dir string) (string, error) {
	path := filepath.Join(dir, "address.txt")
	b, err := os.ReadFile(path)
	if err == nil {
		return strings.TrimSpace(string(b)), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("project: reading %s: %w", path, err)
	}
	addr := uuid.NewString()
	if err := os.WriteFile(path, []byte(addr+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("project: writing %s: %w", path, err)
	}
	return addr, nil
}

func readLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func readTrimmed(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
