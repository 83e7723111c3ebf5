//go:build windows

package fs

import (
	"golang.org/x/sys/windows"
)

// Available returns the number of bytes available to the user on the
// filesystem holding path.
func Available(path string) (uint64, error) {
	pathPtr, err := windows.UTF16PtrFromString(nearestExisting(path))
	if err != nil {
		return 0, err
	}
	var free uint64
	if err := windows.GetDiskFreeSpaceEx(pathPtr, &free, nil, nil); err != nil {
		return 0, err
	}
	return free, nil
}
