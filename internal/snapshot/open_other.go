//go:build !linux

package snapshot

import "os"

// openSequential opens path; read-ahead hints are Linux-only.
func openSequential(path string) (*os.File, error) {
	return os.Open(path)
}
