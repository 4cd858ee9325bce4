// Package mmapfile provides the reference-counted memory-mapped file
// handles the shard handle and merge iterator share: a mapping lives as
// long as its longest-living holder, and every platform without a real
// mmap syscall falls back to a plain read, the way the teacher's
// hyperdrive package falls back from io_uring/RDMA/DPDK to a portable
// path on unsupported platforms.
package mmapfile

import (
	"fmt"
	"os"
	"sync/atomic"
)

// Handle is a reference-counted view over one memory-mapped (or, on the
// fallback path, fully read) file. Open returns a Handle with one
// reference already held; callers that want to share it across
// concurrent owners call Retain and must pair it with Release.
type Handle struct {
	data   []byte
	refs   atomic.Int32
	closer func() error
}

// Open maps (or reads) path and returns a Handle holding one reference.
func Open(path string) (*Handle, error) {
	data, closer, err := mmapOpen(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: open %s: %w", path, err)
	}
	h := &Handle{data: data, closer: closer}
	h.refs.Store(1)
	return h, nil
}

// Bytes returns the mapped region. The returned slice is valid until
// the last reference is Released.
func (h *Handle) Bytes() []byte { return h.data }

// Retain increments the reference count and returns the same handle,
// for a second owner that will independently call Release.
func (h *Handle) Retain() *Handle {
	h.refs.Add(1)
	return h
}

// Release drops a reference. When the last reference is released, the
// mapping is unmapped (or, on the fallback path, simply freed).
func (h *Handle) Release() error {
	if h.refs.Add(-1) > 0 {
		return nil
	}
	if h.closer == nil {
		return nil
	}
	return h.closer()
}

// Stat returns the size in bytes of the open file, as recorded at
// open time.
func (h *Handle) Stat() int { return len(h.data) }

func statSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
