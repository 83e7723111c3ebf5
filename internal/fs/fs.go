// Package fs reports free space on the filesystem holding a path.
package fs

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrUnsupportedOS is returned when the operating system is not supported.
var ErrUnsupportedOS = errors.New("unsupported operating system for disk space check")

// nearestExisting walks up from path to the first directory that exists,
// so space can be checked before a download directory is created.
func nearestExisting(path string) string {
	p := filepath.Clean(path)
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}
