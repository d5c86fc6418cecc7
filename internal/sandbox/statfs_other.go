//go:build !linux

package sandbox

import "syscall"

// FreeBytes reports free space on the device backing path, feeding the
// Filesystem component's spaceTotal method.
func FreeBytes(path string) (uint64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
