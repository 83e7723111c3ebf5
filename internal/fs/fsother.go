//go:build !linux && !darwin && !windows

package fs

// Available always fails on unsupported systems.
func Available(path string) (uint64, error) {
	_ = nearestExisting(path)
	return 0, ErrUnsupportedOS
}
