// Package varint implements a zero-copy decoder over a byte region
// producing unsigned LEB128 varints, the primitive every on-disk term
// and doc-id stream is built from.
package varint

import "fmt"

// ErrTruncated is returned when the stream ends inside a varint.
var ErrTruncated = fmt.Errorf("varint: truncated stream")

// View wraps a [begin, end) byte region and tracks the current read
// position. It never copies the underlying bytes.
type View struct {
	data []byte
	pos  int
}

// NewView wraps data for sequential reading starting at offset 0.
func NewView(data []byte) *View {
	return &View{data: data}
}

// NewViewAt wraps data for sequential reading starting at the given
// byte offset, used to seek a doc-id stream to a term's doc_offset.
func NewViewAt(data []byte, offset uint64) *View {
	return &View{data: data, pos: int(offset)}
}

// Pos returns the current read offset into the underlying region.
func (v *View) Pos() int { return v.pos }

// Len returns the total length of the wrapped region.
func (v *View) Len() int { return len(v.data) }

// Done reports whether the view has been fully consumed.
func (v *View) Done() bool { return v.pos >= len(v.data) }

// ReadUvarint reads one 7-bit LEB128 continuation-encoded unsigned
// varint, returning the decoded value and the number of bytes
// consumed. It fails with ErrTruncated if the stream ends inside a
// varint (a continuation bit set on the final byte).
func (v *View) ReadUvarint() (uint64, int, error) {
	var result uint64
	var shift uint
	start := v.pos
	for {
		if v.pos >= len(v.data) {
			v.pos = start
			return 0, 0, ErrTruncated
		}
		b := v.data[v.pos]
		v.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, v.pos - start, nil
		}
		shift += 7
		if shift >= 64 {
			v.pos = start
			return 0, 0, fmt.Errorf("varint: value overflows 64 bits")
		}
	}
}

// ReadBytes consumes and returns n raw bytes (used for string-term
// suffix payloads and split-record id payloads).
func (v *View) ReadBytes(n int) ([]byte, error) {
	if v.pos+n > len(v.data) {
		return nil, ErrTruncated
	}
	b := v.data[v.pos : v.pos+n]
	v.pos += n
	return b, nil
}

// AppendUvarint encodes x as a 7-bit LEB128 varint onto dst, returning
// the extended slice. This is the encoder side of the same format,
// used by the splitter and by test fixtures that build term indexes.
func AppendUvarint(dst []byte, x uint64) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}
