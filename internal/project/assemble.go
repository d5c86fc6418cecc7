package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/occore/occore/internal/component"
	"github.com/occore/occore/internal/interfaces"
	"github.com/occore/occore/internal/machine"
	"github.com/occore/occore/internal/sandbox"
)

// BuildOptions configures how descriptors turn into live components.
type BuildOptions struct {
	// WindowFactory, given a screen component's name, returns the host
	// window it should paint into, or nil to run headless.
	WindowFactory func(screenName string) interfaces.Window
	// InternetClient backs every Internet component's request/connect
	// methods; defaults to component.NewHTTPClient() when nil.
	InternetClient interfaces.InternetClient
	// DefaultMemory/QueueCapacity back a computer whose memory.txt is
	// missing or unparsable.
	DefaultMemory int64
	QueueCapacity int
}

// Assemble turns descriptors from Loader.Load into live components
// grouped into machine.Computer values, one per computers/<name>
// directory, grounded in the original Computer constructor's own
// component/tempfs/memory resolution.
func Assemble(componentDescs []interfaces.ComponentDescriptor, computerDescs []interfaces.ComputerDescriptor, opts BuildOptions) ([]*machine.Computer, error) {
	if opts.InternetClient == nil {
		opts.InternetClient = component.NewHTTPClient()
	}

	byName := make(map[string]component.Component, len(componentDescs))
	for _, d := range componentDescs {
		c, err := buildComponent(d, opts)
		if err != nil {
			return nil, err
		}
		byName[d.Name] = c
	}

	var out []*machine.Computer
	for _, cd := range computerDescs {
		var members []component.Component
		for _, name := range cd.Components {
			c, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("project: computer %s references unknown component %q", cd.Name, name)
			}
			members = append(members, c)
		}

		tmpName, err := readTrimmed(filepath.Join(cd.Dir, "tempfs.txt"))
		if err != nil {
			return nil, err
		}
		var tmpAddress string
		if tmpName != "" {
			if c, ok := byName[tmpName]; ok {
				tmpAddress = c.Address()
			}
		}

		memory := opts.DefaultMemory
		if memStr, err := readTrimmed(filepath.Join(cd.Dir, "memory.txt")); err == nil && memStr != "" {
			if v, err := strconv.ParseInt(memStr, 10, 64); err == nil {
				memory = v
			}
		}

		queueCap := opts.QueueCapacity
		if queueCap <= 0 {
			queueCap = 256
		}

		out = append(out, machine.NewComputer(cd.Address, cd.Name, memory, queueCap, members, tmpAddress))
	}
	return out, nil
}

func buildComponent(d interfaces.ComponentDescriptor, opts BuildOptions) (component.Component, error) {
	switch d.Kind {
	case "eeprom":
		return buildEeprom(d)
	case "filesystem":
		return buildFilesystem(d)
	case "screen":
		return buildScreen(d, opts)
	case "gpu":
		return buildGpu(d)
	case "keyboard":
		return component.NewKeyboard(d.Address, d.Name), nil
	case "internet":
		return component.NewInternet(d.Address, d.Name, opts.InternetClient), nil
	default:
		return nil, fmt.Errorf("project: unknown component kind %q for %s", d.Kind, d.Name)
	}
}

func buildEeprom(d interfaces.ComponentDescriptor) (component.Component, error) {
	primary, err := os.ReadFile(filepath.Join(d.Dir, "primary.lua"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("project: eeprom %s: %w", d.Name, err)
	}
	secondary, err := os.ReadFile(filepath.Join(d.Dir, "secondary.bin"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("project: eeprom %s: %w", d.Name, err)
	}
	label, err := readTrimmed(filepath.Join(d.Dir, "label.txt"))
	if err != nil {
		return nil, err
	}
	return component.NewEeprom(d.Address, d.Name, primary, secondary, label), nil
}

func buildFilesystem(d interfaces.ComponentDescriptor) (component.Component, error) {
	dataDir := filepath.Join(d.Dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("project: filesystem %s: %w", d.Name, err)
	}
	jail, err := sandbox.NewJail(dataDir)
	if err != nil {
		return nil, fmt.Errorf("project: filesystem %s: %w", d.Name, err)
	}
	label, err := readTrimmed(filepath.Join(d.Dir, "label.txt"))
	if err != nil {
		return nil, err
	}
	readonly := fileExists(filepath.Join(d.Dir, "readonly.txt"))
	return component.NewFilesystem(d.Address, d.Name, jail, label, readonly), nil
}

func buildScreen(d interfaces.ComponentDescriptor, opts BuildOptions) (component.Component, error) {
	fields, err := readConfigFields(filepath.Join(d.Dir, "config.txt"), 5)
	if err != nil {
		return nil, fmt.Errorf("project: screen %s: %w", d.Name, err)
	}
	depth, ratioW, ratioH, maxW, maxH := fields[0], fields[1], fields[2], fields[3], fields[4]
	keyboards, err := readLines(filepath.Join(d.Dir, "keyboards.txt"))
	if err != nil {
		return nil, err
	}
	var window interfaces.Window
	if opts.WindowFactory != nil {
		window = opts.WindowFactory(d.Name)
	}
	return component.NewScreen(d.Address, d.Name, depth, maxW, maxH, ratioW, ratioH, keyboards, window), nil
}

func buildGpu(d interfaces.ComponentDescriptor) (component.Component, error) {
	fields, err := readConfigFields(filepath.Join(d.Dir, "config.txt"), 3)
	if err != nil {
		return nil, fmt.Errorf("project: gpu %s: %w", d.Name, err)
	}
	return component.NewGpu(d.Address, d.Name, fields[0], fields[1], fields[2]), nil
}

// readConfigFields parses a whitespace-separated line of n integers.
func readConfigFields(path string, n int) ([]int, error) {
	raw, err := readTrimmed(path)
	if err != nil {
		return nil, err
	}
	parts := strings.Fields(raw)
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d fields in %s, got %d", n, path, len(parts))
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%s: field %d: %w", path, i, err)
		}
		out[i] = v
	}
	return out, nil
}
