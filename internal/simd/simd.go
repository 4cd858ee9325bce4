// Package simd provides the 16-byte shuffle/blend primitives the packed
// table and unpack kernel are built on. Every platform gets the scalar
// fallback described here; the control-vector semantics (byte index,
// -1 meaning zero-fill) are identical regardless of which path runs,
// so callers never need to branch on architecture.
package simd

// Vec is a 16-byte SIMD lane, addressed as two little-endian uint64 lanes
// or sixteen individual bytes depending on the operation.
type Vec [16]byte

// Ctl is a shuffle control vector. Entry i selects source byte ctl[i] for
// destination byte i; a negative entry zero-fills destination byte i,
// matching PSHUFB's high-bit-set convention.
type Ctl [16]int8

// Shuffle returns the byte-gather of v under ctl: result[i] = v[ctl[i]]
// when ctl[i] >= 0, else 0.
func Shuffle(v Vec, ctl Ctl) Vec {
	var out Vec
	for i, c := range ctl {
		if c >= 0 {
			out[i] = v[c]
		}
	}
	return out
}

// Blendv selects byte i of b where mask[i] is 0xFF, byte i of a otherwise.
// blend_put's mask is always either 0x00 or 0xFF per byte, never partial.
func Blendv(a, b, mask Vec) Vec {
	var out Vec
	for i := range out {
		if mask[i] == 0xFF {
			out[i] = b[i]
		} else {
			out[i] = a[i]
		}
	}
	return out
}

// CvtI64ToVec places x in lane 0 (bytes 0..7, little-endian); the rest of
// the vector is zero.
func CvtI64ToVec(x uint64) Vec {
	var v Vec
	putU64(v[0:8], x)
	return v
}

// ExtractI64 reads lane 0 or lane 1 (8 bytes, little-endian) of v.
func ExtractI64(v Vec, lane int) uint64 {
	if lane == 0 {
		return getU64(v[0:8])
	}
	return getU64(v[8:16])
}

func putU64(b []byte, x uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(x >> (8 * uint(i)))
	}
}

func getU64(b []byte) uint64 {
	var x uint64
	for i := 0; i < 8; i++ {
		x |= uint64(b[i]) << (8 * uint(i))
	}
	return x
}

// Prefetch is a hint that the cache line(s) backing v will be needed
// soon. On real hardware this would be a PREFETCHT0/PLD instruction;
// here, as in the teacher's cpu_features stubs, it is a documented no-op
// fallback so the unpack kernel's prefetch call sites compile and read
// the same regardless of platform.
func Prefetch(_ *Vec) {}
