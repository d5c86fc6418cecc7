// Package sandbox confines a guest's filesystem access to a data root and
// reports free space on the backing device.
//
// The teacher's sandbox package isolated spawned OS subprocesses with
// Linux namespaces, seccomp filters, and cgroups. A guest computer here
// has no subprocess to jail — it's an in-process interpreter — so this
// package keeps only the piece of that design that still applies: no
// silent fallback when a path would escape the sandbox, reported the
// same way the teacher's EnforcementError refused to pretend isolation
// existed when the platform couldn't back it.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EscapeError is returned when a guest-supplied path resolves outside
// the jail's data root.
type EscapeError struct {
	Requested string
	Root      string
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("path %q escapes sandbox root %q", e.Requested, e.Root)
}

// Jail confines path resolution to a single directory tree, the way the
// original emulator's Filesystem component was supposed to (its
// get_data_directory()+cPath string concatenation never actually
// checked for "..", a bug this type does not replicate).
type Jail struct {
	root string
}

// NewJail resolves root to an absolute, cleaned path and requires it to
// already exist as a directory.
func NewJail(root string) (*Jail, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("sandbox: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("sandbox: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sandbox: root %q is not a directory", abs)
	}
	return &Jail{root: abs}, nil
}

// Root returns the jail's confinement directory.
func (j *Jail) Root() string {
	return j.root
}

// Resolve joins guestPath onto the jail root and rejects the result if it
// escapes the root after cleaning — the guest can request "../../etc/passwd"
// and it will be caught here rather than silently traversing out.
func (j *Jail) Resolve(guestPath string) (string, error) {
	joined := filepath.Join(j.root, guestPath)
	cleaned := filepath.Clean(joined)

	rel, err := filepath.Rel(j.root, cleaned)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &EscapeError{Requested: guestPath, Root: j.root}
	}
	return cleaned, nil
}
