// Package ftgs is the public façade over the FTGS pipeline: given a
// field's shard directories, it wires the term iterator, splitter,
// merge iterator, and term-sequence iterator together into one
// Query, matching the original system's top-level FTGSIterator
// contract for in-process callers (the cross-language bridge itself
// is out of scope here).
package ftgs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fenilsonani/ftgs/internal/mmapfile"
	"github.com/fenilsonani/ftgs/internal/shard"
	"github.com/fenilsonani/ftgs/internal/split"
	"github.com/fenilsonani/ftgs/internal/term"
	"github.com/fenilsonani/ftgs/internal/termseq"
	"golang.org/x/sync/errgroup"
)

// Query walks one field across a set of shards, bucket by bucket,
// yielding term-sequence runs in the order termseq.Iterator produces
// them within each bucket.
type Query struct {
	field string
	kind  term.Kind

	shards   []*shard.Handle
	splitDir string
	buckets  int

	bucket  int
	current *termseq.Iterator
	readers []*split.Reader
}

// Open splits field's term index for every shard under shardDirs into
// buckets output streams beneath splitDir, then prepares to walk the
// resulting runs bucket by bucket. The caller owns splitDir and
// shardDirs for the Query's lifetime; Close releases every mmap
// handle opened along the way.
func Open(field string, kind term.Kind, shardDirs []string, splitDir string, buckets int) (*Query, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("ftgs: Open: buckets must be positive, got %d", buckets)
	}

	if err := os.MkdirAll(filepath.Join(splitDir, field), 0o755); err != nil {
		return nil, fmt.Errorf("ftgs: prepare split dir: %w", err)
	}

	q := &Query{field: field, kind: kind, splitDir: splitDir, buckets: buckets}
	q.shards = make([]*shard.Handle, len(shardDirs))

	// Each shard's term view is independent I/O and its splitter owns
	// its own output files exclusively, so shards split concurrently;
	// the bucket-merge stage below is the synchronization point.
	g := new(errgroup.Group)
	for i, dir := range shardDirs {
		i, dir := i, dir
		g.Go(func() error {
			h := shard.Open(dir)
			q.shards[i] = h

			termView, err := h.TermView(field)
			if err != nil {
				return fmt.Errorf("ftgs: open term view for shard %s: %w", h.Name(), err)
			}

			it, err := newTermIterator(kind, termView)
			if err != nil {
				return err
			}

			s, err := split.NewSplitter(buckets, func(k int) string {
				return h.SplitFilename(splitDir, field, k)
			})
			if err != nil {
				return fmt.Errorf("ftgs: new splitter for shard %s: %w", h.Name(), err)
			}
			s.WithCleanupOnError()
			if err := s.Run(it); err != nil {
				return fmt.Errorf("ftgs: split shard %s: %w", h.Name(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		q.Close()
		return nil, err
	}

	if err := q.openBucket(0); err != nil {
		q.Close()
		return nil, err
	}
	return q, nil
}

func newTermIterator(kind term.Kind, v *mmapfile.Handle) (term.Iterator, error) {
	switch kind {
	case term.KindInt:
		return term.NewIntIterator(v.Bytes()), nil
	case term.KindString:
		return term.NewStringIterator(v.Bytes()), nil
	default:
		return nil, fmt.Errorf("ftgs: unknown term kind %v", kind)
	}
}

func (q *Query) openBucket(k int) error {
	q.closeReaders()

	var inputs []split.MergeInput
	for i, h := range q.shards {
		path := h.SplitFilename(q.splitDir, q.field, k)
		r, err := split.OpenReader(path, q.kind)
		if err != nil {
			return fmt.Errorf("ftgs: open bucket %d for shard %s: %w", k, h.Name(), err)
		}
		q.readers = append(q.readers, r)
		inputs = append(inputs, split.MergeInput{ShardIndex: i, Reader: r})
	}

	m := split.NewMerge(q.kind, inputs)
	q.current = termseq.New(m, q.kind)
	q.bucket = k
	return nil
}

func (q *Query) closeReaders() {
	for _, r := range q.readers {
		r.Close()
	}
	q.readers = nil
}

// Next returns the next run in the query's bucket-by-bucket walk, or
// ok=false once every bucket of every shard is exhausted.
func (q *Query) Next() (termseq.Run, bool, error) {
	for {
		run, ok, err := q.current.Next()
		if err != nil {
			return termseq.Run{}, false, err
		}
		if ok {
			return run, true, nil
		}
		if q.bucket+1 >= q.buckets {
			return termseq.Run{}, false, nil
		}
		if err := q.openBucket(q.bucket + 1); err != nil {
			return termseq.Run{}, false, err
		}
	}
}

// Close releases every shard handle and bucket reader the query
// opened.
func (q *Query) Close() error {
	q.closeReaders()
	var firstErr error
	for _, h := range q.shards {
		if h == nil {
			continue
		}
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
