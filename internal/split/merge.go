package split

import (
	"bytes"
	"container/heap"
	"fmt"

	"github.com/fenilsonani/ftgs/internal/term"
)

// MergeInput is one shard's contribution to a merge: a reader over
// that shard's bucket file for the field being merged, tagged with
// the shard's position in the merge so ties resolve deterministically.
type MergeInput struct {
	ShardIndex int
	Reader     *Reader
}

type mergeItem struct {
	rec        term.Record
	shardIndex int
	src        int // index into heap's inputs slice
}

type mergeHeap struct {
	items []mergeItem
	kind  term.Kind
}

func (h *mergeHeap) Len() int { return len(h.items) }

func (h *mergeHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	var cmp int
	switch h.kind {
	case term.KindInt:
		switch {
		case a.rec.IntID < b.rec.IntID:
			cmp = -1
		case a.rec.IntID > b.rec.IntID:
			cmp = 1
		}
	case term.KindString:
		cmp = bytes.Compare(a.rec.StrID, b.rec.StrID)
	}
	if cmp != 0 {
		return cmp < 0
	}
	return a.shardIndex < b.shardIndex
}

func (h *mergeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *mergeHeap) Push(x interface{}) { h.items = append(h.items, x.(mergeItem)) }

func (h *mergeHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	it := old[n-1]
	h.items = old[:n-1]
	return it
}

// MergeRecord is one (shard, term record) pair yielded by Merge, in
// the order spec.md's merge iterator defines.
type MergeRecord struct {
	ShardIndex int
	Record     term.Record
}

// Merge produces a single ordered stream across every input's bucket
// stream: strictly non-decreasing by id, with shard index breaking
// ties so the merge order is a deterministic function of shard
// position rather than file-system read order.
type Merge struct {
	inputs []MergeInput
	kind   term.Kind
	h      *mergeHeap
	start  bool
}

// NewMerge builds a merge reader over inputs, all of which must share
// kind (every shard's view of one field agrees on its term kind).
func NewMerge(kind term.Kind, inputs []MergeInput) *Merge {
	return &Merge{inputs: inputs, kind: kind, h: &mergeHeap{kind: kind}}
}

// Kind reports the merged stream's term kind.
func (m *Merge) Kind() term.Kind { return m.kind }

func (m *Merge) fill() error {
	for i := range m.inputs {
		if err := m.advance(i); err != nil {
			return err
		}
	}
	heap.Init(m.h)
	return nil
}

func (m *Merge) advance(src int) error {
	rec, ok, err := m.inputs[src].Reader.Next()
	if err != nil {
		return fmt.Errorf("split: merge: shard %d: %w", m.inputs[src].ShardIndex, err)
	}
	if !ok {
		return nil
	}
	heap.Push(m.h, mergeItem{rec: rec, shardIndex: m.inputs[src].ShardIndex, src: src})
	return nil
}

// Next returns merge records in non-decreasing id order, ties broken
// by ascending shard index.
func (m *Merge) Next() (MergeRecord, bool, error) {
	if !m.start {
		m.start = true
		if err := m.fill(); err != nil {
			return MergeRecord{}, false, err
		}
	}
	if m.h.Len() == 0 {
		return MergeRecord{}, false, nil
	}
	top := heap.Pop(m.h).(mergeItem)
	if err := m.advance(top.src); err != nil {
		return MergeRecord{}, false, err
	}
	return MergeRecord{ShardIndex: top.shardIndex, Record: top.rec}, true, nil
}

// Close releases every input reader's mmap handle.
func (m *Merge) Close() error {
	var first error
	for _, in := range m.inputs {
		if err := in.Reader.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
