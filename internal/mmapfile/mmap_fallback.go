//go:build !unix

package mmapfile

import "os"

// mmapOpen falls back to a plain read on platforms without a POSIX
// mmap syscall, the way the teacher's hyperdrive package falls back
// to portable I/O on non-Linux builds. Correctness is identical;
// only the zero-copy property is lost.
func mmapOpen(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
