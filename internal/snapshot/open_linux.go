//go:build linux

package snapshot

import (
	"os"

	"golang.org/x/sys/unix"
)

// openSequential opens path and hints the kernel that it will be read
// front-to-back once. The hints are best effort; failures are ignored.
func openSequential(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_WILLNEED)
	return f, nil
}
