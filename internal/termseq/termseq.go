// Package termseq wraps a merge iterator and groups its output by
// term id, yielding one run per distinct term: the id plus the
// ordered list of per-shard contributions that fed it, ready for
// per-term aggregation.
package termseq

import (
	"bytes"
	"fmt"

	"github.com/fenilsonani/ftgs/internal/split"
	"github.com/fenilsonani/ftgs/internal/term"
)

// Source is the minimal interface termseq needs from an upstream
// merge: a non-decreasing, finite stream of (shard, term record)
// pairs. *split.Merge satisfies this.
type Source interface {
	Next() (split.MergeRecord, bool, error)
}

// Contribution is one shard's posting-list pointer into a run.
type Contribution struct {
	ShardIndex int
	DocOffset  uint64
	DocFreq    uint64
}

// Run is every contribution sharing one term id, in the order the
// underlying merge produced them.
type Run struct {
	Kind          term.Kind
	IntID         int64
	StrID         []byte
	Contributions []Contribution
}

// Iterator groups a Source's output into Runs. A run is emitted when
// the next underlying record's id differs from the run in progress,
// or the source is exhausted.
type Iterator struct {
	src    Source
	kind   term.Kind
	peeked *split.MergeRecord
	done   bool
}

// New wraps src, whose records are all known to share kind.
func New(src Source, kind term.Kind) *Iterator {
	return &Iterator{src: src, kind: kind}
}

func (it *Iterator) take() (split.MergeRecord, bool, error) {
	if it.peeked != nil {
		r := *it.peeked
		it.peeked = nil
		return r, true, nil
	}
	if it.done {
		return split.MergeRecord{}, false, nil
	}
	r, ok, err := it.src.Next()
	if err != nil {
		return split.MergeRecord{}, false, fmt.Errorf("termseq: read merge record: %w", err)
	}
	if !ok {
		it.done = true
		return split.MergeRecord{}, false, nil
	}
	return r, true, nil
}

func (it *Iterator) sameID(a, b split.MergeRecord) bool {
	if it.kind == term.KindString {
		return bytes.Equal(a.Record.StrID, b.Record.StrID)
	}
	return a.Record.IntID == b.Record.IntID
}

// Next returns the next run, or ok=false once the underlying merge is
// exhausted.
func (it *Iterator) Next() (Run, bool, error) {
	first, ok, err := it.take()
	if err != nil {
		return Run{}, false, err
	}
	if !ok {
		return Run{}, false, nil
	}

	run := Run{Kind: it.kind, IntID: first.Record.IntID, StrID: first.Record.StrID}
	run.Contributions = append(run.Contributions, Contribution{
		ShardIndex: first.ShardIndex,
		DocOffset:  first.Record.DocOffset,
		DocFreq:    first.Record.DocFreq,
	})

	for {
		next, ok, err := it.take()
		if err != nil {
			return Run{}, false, err
		}
		if !ok {
			break
		}
		if !it.sameID(first, next) {
			it.peeked = &next
			break
		}
		run.Contributions = append(run.Contributions, Contribution{
			ShardIndex: next.ShardIndex,
			DocOffset:  next.Record.DocOffset,
			DocFreq:    next.Record.DocFreq,
		})
	}

	return run, true, nil
}
