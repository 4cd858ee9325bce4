// Package packed implements the bit-packed columnar metric store that
// backs one shard's worth of per-document group-stat aggregation.
//
// # Layout
//
// Each row is a sequence of 16-byte vectors. The first four bytes of
// the first vector are a little-endian header holding the group id
// (low GroupSize bits) followed by up to MaxBitFields single-bit
// boolean columns. Every other column is byte-packed starting right
// after the header, never straddling a vector boundary; a column that
// would cross one is pushed to byte 0 of the next vector instead.
//
// Row size is padded to a multiple of 2 vectors whenever more than one
// vector is needed, so that a whole __v2di-shaped pair can always be
// loaded together.
//
// # Why shuffle/blend instead of bit-shifting
//
// Cell access does not compute a bit offset per call. Construction
// instead precomputes, per non-boolean column, a shuffle control
// vector that gathers the column's bytes into lane 0 (get) or scatters
// lane 0's bytes into the column's position (put), plus a blend mask
// that leaves the rest of the vector untouched on a put. See
// internal/simd for the primitives these tables are built from; they
// follow PSHUFB/PBLENDVB control-vector semantics, implemented in
// scalar Go on every platform.
//
// # Concurrency
//
// A Table is single-writer/single-reader per query: callers are
// responsible for not mutating the same table from two goroutines at
// once. Concurrent reads of disjoint rows are always safe since data
// is never relocated after New returns.
//
// Go does not expose an allocator primitive for 64-byte-aligned
// slices the way aligned_alloc does; data is a plain []simd.Vec. This
// loses the cache-alignment guarantee the original C implementation
// relies on but changes no observable behavior, since every access
// goes through RowVector/GetCell/SetCell rather than raw pointer
// arithmetic.
package packed
