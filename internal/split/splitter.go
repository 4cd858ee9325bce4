// Package split implements term routing (the splitter) and the
// ordered cross-shard merge that recombines routed terms into a
// single stream (the merge iterator).
package split

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fenilsonani/ftgs/internal/term"
	"github.com/klauspost/compress/zstd"
)

// Splitter partitions one shard's term stream for one field into n
// output streams, routed by BucketInt/BucketString. Streams are
// pre-created and truncated up front so a caller inspecting the
// output directory mid-run always sees exactly n files.
type Splitter struct {
	n       int
	files   []*os.File
	writers []*bufio.Writer
	cleanup bool
	paths   []string
}

// NewSplitter pre-creates (truncating) the n output files named by
// pathFor(k) for k in [0, n).
func NewSplitter(n int, pathFor func(k int) string) (*Splitter, error) {
	if n <= 0 {
		return nil, fmt.Errorf("split: NewSplitter: n must be positive, got %d", n)
	}
	s := &Splitter{n: n}
	for k := 0; k < n; k++ {
		path := pathFor(k)
		f, err := os.Create(path)
		if err != nil {
			s.abort()
			return nil, fmt.Errorf("split: create output %d (%s): %w", k, path, err)
		}
		s.files = append(s.files, f)
		s.writers = append(s.writers, bufio.NewWriter(f))
		s.paths = append(s.paths, path)
	}
	return s, nil
}

// WithCleanupOnError arranges for Run's output files to be removed if
// it returns an error, so a failed split never leaves a partially
// written bucket behind for a later merge to trip over.
func (s *Splitter) WithCleanupOnError() *Splitter {
	s.cleanup = true
	return s
}

// Run consumes it to completion, hashing and routing each record into
// its bucket stream, then flushes and closes every stream. On error
// Run always closes every stream before returning; if
// WithCleanupOnError was set it also removes them.
func (s *Splitter) Run(it term.Iterator) (err error) {
	defer func() {
		closeErr := s.closeAll()
		if err == nil {
			err = closeErr
		}
		if err != nil && s.cleanup {
			s.removeAll()
		}
	}()

	kind := it.Kind()
	for {
		rec, ok, nextErr := it.Next()
		if nextErr != nil {
			return fmt.Errorf("split: read term record: %w", nextErr)
		}
		if !ok {
			return nil
		}

		var bucket int
		var buf []byte
		switch kind {
		case term.KindInt:
			bucket = BucketInt(rec.IntID, s.n)
			buf = EncodeInt(nil, rec)
		case term.KindString:
			bucket = BucketString(rec.StrID, s.n)
			buf = EncodeString(nil, rec)
		default:
			return fmt.Errorf("split: unknown term kind %v", kind)
		}

		if _, err := s.writers[bucket].Write(buf); err != nil {
			return fmt.Errorf("split: write bucket %d: %w", bucket, err)
		}
	}
}

func (s *Splitter) closeAll() error {
	var first error
	for i, w := range s.writers {
		if w == nil {
			continue
		}
		if err := w.Flush(); err != nil && first == nil {
			first = fmt.Errorf("split: flush bucket %d: %w", i, err)
		}
	}
	for i, f := range s.files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = fmt.Errorf("split: close bucket %d: %w", i, err)
		}
	}
	return first
}

func (s *Splitter) abort() {
	for _, f := range s.files {
		if f != nil {
			f.Close()
		}
	}
	s.removeAll()
}

func (s *Splitter) removeAll() {
	for _, p := range s.paths {
		os.Remove(p)
	}
}

// CompressOutputs zstd-compresses every bucket file Run wrote, for
// shards bound for cold storage or a cross-machine transfer, and
// removes the uncompressed original. It must be called after Run
// completes successfully. OpenReader transparently decompresses a
// bucket whose raw file is absent but whose ".zst" sibling exists, so
// the merge side never has to know which buckets were archived.
func (s *Splitter) CompressOutputs() error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("split: new zstd encoder: %w", err)
	}
	defer enc.Close()

	for _, path := range s.paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("split: read %s for compression: %w", path, err)
		}
		compressed := enc.EncodeAll(raw, nil)
		if err := os.WriteFile(path+".zst", compressed, 0o644); err != nil {
			return fmt.Errorf("split: write %s.zst: %w", path, err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("split: remove uncompressed %s: %w", path, err)
		}
	}
	return nil
}
