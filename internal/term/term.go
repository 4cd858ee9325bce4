// Package term implements the term record and the lazy, forward-only
// term iterator read from a shard's on-disk term index for one field.
//
// Integer and string fields share almost all of the iteration logic;
// per the monomorphization design note, a single Iterator interface
// has two concrete implementations instead of switching on term kind
// inside every call.
package term

import (
	"fmt"

	"github.com/fenilsonani/ftgs/internal/varint"
)

// Kind identifies whether a field's terms are integer- or string-keyed.
type Kind int

const (
	// KindInt fields sort terms strictly ascending by signed 64-bit id.
	KindInt Kind = iota
	// KindString fields sort terms lexicographically by byte value.
	KindString
)

// Record is one term in one shard: either an integer or string id
// (whichever the owning iterator's Kind is), a document offset into
// the field's doc-id stream, and a document frequency.
type Record struct {
	IntID     int64
	StrID     []byte
	DocOffset uint64
	DocFreq   uint64
}

// Iterator produces a lazy, finite, non-restartable sequence of term
// records from one field's term index.
type Iterator interface {
	// Next advances and returns the next record. The second return
	// value is false once the stream is exhausted; err is non-nil
	// only on a malformed index, in which case no partial record is
	// returned. The iterator keeps no error state: a further Next
	// resumes decoding from wherever the failed read stopped.
	Next() (Record, bool, error)
	Kind() Kind
}

// IntIterator reads delta-coded (Δid, Δdoc_offset, doc_freq) triples.
type IntIterator struct {
	v       *varint.View
	prevID  int64
	prevOff uint64
}

// NewIntIterator wraps a field's term-index byte region for an integer
// field.
func NewIntIterator(data []byte) *IntIterator {
	return &IntIterator{v: varint.NewView(data)}
}

func (it *IntIterator) Kind() Kind { return KindInt }

func (it *IntIterator) Next() (Record, bool, error) {
	if it.v.Done() {
		return Record{}, false, nil
	}
	deltaID, _, err := it.v.ReadUvarint()
	if err != nil {
		return Record{}, false, fmt.Errorf("term: int iterator: read delta id: %w", err)
	}
	deltaOff, _, err := it.v.ReadUvarint()
	if err != nil {
		return Record{}, false, fmt.Errorf("term: int iterator: read delta offset: %w", err)
	}
	freq, _, err := it.v.ReadUvarint()
	if err != nil {
		return Record{}, false, fmt.Errorf("term: int iterator: read doc freq: %w", err)
	}
	it.prevID += int64(deltaID)
	it.prevOff += deltaOff
	return Record{IntID: it.prevID, DocOffset: it.prevOff, DocFreq: freq}, true, nil
}

// StringIterator reads prefix-shared (prefix_len, suffix_len, suffix,
// Δdoc_offset, doc_freq) records, rebuilding each term's bytes from
// the previous term plus the new suffix.
type StringIterator struct {
	v       *varint.View
	id      []byte
	prevOff uint64
}

// NewStringIterator wraps a field's term-index byte region for a
// string field.
func NewStringIterator(data []byte) *StringIterator {
	return &StringIterator{v: varint.NewView(data)}
}

func (it *StringIterator) Kind() Kind { return KindString }

func (it *StringIterator) Next() (Record, bool, error) {
	if it.v.Done() {
		return Record{}, false, nil
	}
	prefixLen, _, err := it.v.ReadUvarint()
	if err != nil {
		return Record{}, false, fmt.Errorf("term: string iterator: read prefix len: %w", err)
	}
	suffixLen, _, err := it.v.ReadUvarint()
	if err != nil {
		return Record{}, false, fmt.Errorf("term: string iterator: read suffix len: %w", err)
	}
	if int(prefixLen) > len(it.id) {
		return Record{}, false, fmt.Errorf("term: string iterator: prefix_len %d exceeds current id length %d", prefixLen, len(it.id))
	}
	suffix, err := it.v.ReadBytes(int(suffixLen))
	if err != nil {
		return Record{}, false, fmt.Errorf("term: string iterator: read suffix: %w", err)
	}
	deltaOff, _, err := it.v.ReadUvarint()
	if err != nil {
		return Record{}, false, fmt.Errorf("term: string iterator: read delta offset: %w", err)
	}
	freq, _, err := it.v.ReadUvarint()
	if err != nil {
		return Record{}, false, fmt.Errorf("term: string iterator: read doc freq: %w", err)
	}

	next := make([]byte, 0, int(prefixLen)+len(suffix))
	next = append(next, it.id[:prefixLen]...)
	next = append(next, suffix...)
	it.id = next
	it.prevOff += deltaOff

	return Record{StrID: it.id, DocOffset: it.prevOff, DocFreq: freq}, true, nil
}
