package split

import (
	"fmt"

	"github.com/fenilsonani/ftgs/internal/term"
	"github.com/fenilsonani/ftgs/internal/varint"
)

// EncodeInt appends one integer-field split record to dst: a
// self-delimiting uvarint id, then uvarint doc_offset and doc_freq.
func EncodeInt(dst []byte, r term.Record) []byte {
	dst = varint.AppendUvarint(dst, uint64(r.IntID))
	dst = varint.AppendUvarint(dst, r.DocOffset)
	dst = varint.AppendUvarint(dst, r.DocFreq)
	return dst
}

// EncodeString appends one string-field split record to dst: a uvarint
// id_len, the raw id bytes, then uvarint doc_offset and doc_freq.
func EncodeString(dst []byte, r term.Record) []byte {
	dst = varint.AppendUvarint(dst, uint64(len(r.StrID)))
	dst = append(dst, r.StrID...)
	dst = varint.AppendUvarint(dst, r.DocOffset)
	dst = varint.AppendUvarint(dst, r.DocFreq)
	return dst
}

// DecodeInt reads one integer-field split record from v.
func DecodeInt(v *varint.View) (term.Record, bool, error) {
	if v.Done() {
		return term.Record{}, false, nil
	}
	id, _, err := v.ReadUvarint()
	if err != nil {
		return term.Record{}, false, fmt.Errorf("split: decode int record: id: %w", err)
	}
	off, _, err := v.ReadUvarint()
	if err != nil {
		return term.Record{}, false, fmt.Errorf("split: decode int record: doc_offset: %w", err)
	}
	freq, _, err := v.ReadUvarint()
	if err != nil {
		return term.Record{}, false, fmt.Errorf("split: decode int record: doc_freq: %w", err)
	}
	return term.Record{IntID: int64(id), DocOffset: off, DocFreq: freq}, true, nil
}

// DecodeString reads one string-field split record from v.
func DecodeString(v *varint.View) (term.Record, bool, error) {
	if v.Done() {
		return term.Record{}, false, nil
	}
	idLen, _, err := v.ReadUvarint()
	if err != nil {
		return term.Record{}, false, fmt.Errorf("split: decode string record: id_len: %w", err)
	}
	id, err := v.ReadBytes(int(idLen))
	if err != nil {
		return term.Record{}, false, fmt.Errorf("split: decode string record: id: %w", err)
	}
	off, _, err := v.ReadUvarint()
	if err != nil {
		return term.Record{}, false, fmt.Errorf("split: decode string record: doc_offset: %w", err)
	}
	freq, _, err := v.ReadUvarint()
	if err != nil {
		return term.Record{}, false, fmt.Errorf("split: decode string record: doc_freq: %w", err)
	}
	idCopy := make([]byte, len(id))
	copy(idCopy, id)
	return term.Record{StrID: idCopy, DocOffset: off, DocFreq: freq}, true, nil
}
