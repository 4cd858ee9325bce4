//go:build unix

package mmapfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapOpen maps path read-only via mmap(2). The returned closer
// unmaps the region; it must only run once the last reference drops.
func mmapOpen(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	size, err := statSize(path)
	if err != nil {
		return nil, nil, err
	}
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
