//go:build linux

package sandbox

import "golang.org/x/sys/unix"

// FreeBytes reports free space on the device backing path, feeding the
// Filesystem component's spaceTotal method.
func FreeBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}
