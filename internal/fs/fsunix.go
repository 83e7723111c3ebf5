//go:build linux || darwin

package fs

import "golang.org/x/sys/unix"

// Available returns the number of bytes available to the user (non-root) on
// the filesystem holding path.
func Available(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(nearestExisting(path), &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil // #nosec G115
}
