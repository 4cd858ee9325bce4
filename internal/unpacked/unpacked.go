// Package unpacked implements the wider per-group accumulator row
// layout and the kernel that explodes one packed row into it. Where
// internal/packed favors density (shuffle/blend into byte-packed
// lanes), this package favors uniformity: one 64-bit lane per logical
// column, so the aggregation stage downstream never has to special-
// case boolean vs. byte-packed columns.
package unpacked

import (
	"fmt"

	"github.com/fenilsonani/ftgs/internal/packed"
	"github.com/fenilsonani/ftgs/internal/simd"
)

// Table is the unpacked accumulator: padded_row_len lanes per row,
// one int64 per logical column (min already added back in), plus a
// non_zero_rows bit-set indexed by group id.
type Table struct {
	src *packed.Table

	nRows         int
	paddedRowLen  int
	boolLanes     int // boolean region width in lanes, rounded to even
	colOffset     []int
	pairByVector  [][]packed.PairGroup

	data        []int64
	nonZeroRows []uint64 // bit-set, indexed by group id
	maxGroups   int
}

// New builds an unpacked table sized for nRows accumulator rows. src
// supplies the column schema the unpack kernel reads from; maxGroups
// bounds the non_zero_rows bit-set (the engine's group space is
// query-scoped, never the full 2^GroupSize range).
func New(src *packed.Table, nRows, maxGroups int) *Table {
	nBool := src.NBooleanCols()
	boolLanes := roundUp2(nBool)
	nNonBool := src.NNonBoolCols()

	colOffset := make([]int, src.NCols())
	for c := 0; c < nBool; c++ {
		// booleanLUT stores each pair's lanes swapped (lane i holds
		// column i+1's bit, lane i+1 holds column i's bit), so the
		// column-to-lane map swaps within each pair too.
		colOffset[c] = c ^ 1
	}
	for i := 0; i < nNonBool; i++ {
		colOffset[src.NonBoolColumn(i)] = boolLanes + i
	}

	paddedRowLen := roundUp2(boolLanes + nNonBool)

	plan := src.PairPlan()
	byVec := make([][]packed.PairGroup, src.UnpaddedRowSize())
	for _, p := range plan {
		byVec[p.Vector] = append(byVec[p.Vector], p)
	}

	return &Table{
		src:          src,
		nRows:        nRows,
		paddedRowLen: paddedRowLen,
		boolLanes:    boolLanes,
		colOffset:    colOffset,
		pairByVector: byVec,
		data:         make([]int64, nRows*paddedRowLen),
		nonZeroRows:  make([]uint64, (maxGroups+63)/64),
		maxGroups:    maxGroups,
	}
}

// PaddedRowLen reports the lane count per row.
func (t *Table) PaddedRowLen() int { return t.paddedRowLen }

// Cell returns the lane value for column col of row.
func (t *Table) Cell(row, col int) int64 {
	return t.data[row*t.paddedRowLen+t.colOffset[col]]
}

// NonZeroRow reports whether group g has received any unpack
// contribution yet.
func (t *Table) NonZeroRow(g uint32) bool {
	if int(g) >= t.maxGroups {
		return false
	}
	return t.nonZeroRows[g/64]&(1<<(g%64)) != 0
}

func (t *Table) markNonZero(g uint32) {
	if int(g) >= t.maxGroups {
		return
	}
	t.nonZeroRows[g/64] |= 1 << (g % 64)
}

func roundUp2(n int) int {
	if n == 0 {
		return 0
	}
	return (n + 1) &^ 1
}

// booleanLUT[bb] gives the expanded pair for a 2-bit header chunk bb
// covering boolean columns i (bit 0 of bb) and i+1 (bit 1 of bb):
// lane i holds column i+1's bit, lane i+1 holds column i's bit. This
// matches packed_table.c's unpack_bit_fields lookup_table verbatim
// ({0,0},{0,1},{1,0},{1,1}), which stores the pair's lanes in that
// swapped order rather than lane i <-> column i.
var booleanLUT = [4][2]int64{
	{0, 0},
	{0, 1},
	{1, 0},
	{1, 1},
}

// UnpackRow populates destRow of dest from srcRow of the packed table
// dest was built against. prefetchRow names a future row (typically
// the next one the caller will unpack) whose vectors are hinted to
// the cache after every four source vectors processed; it is not
// otherwise read or validated here.
func (t *Table) UnpackRow(srcRow, destRow, prefetchRow int) error {
	if srcRow < 0 || srcRow >= t.src.NRows() {
		return fmt.Errorf("unpacked: src row %d out of range", srcRow)
	}
	if destRow < 0 || destRow >= t.nRows {
		return fmt.Errorf("unpacked: dest row %d out of range", destRow)
	}

	header := loadHeader(t.src.RowVector(srcRow, 0))
	groupMask := uint32(1)<<packed.GroupSize - 1
	groupID := header & groupMask
	t.markNonZero(groupID)

	destBase := destRow * t.paddedRowLen
	nBool := t.src.NBooleanCols()
	for i := 0; i < nBool; i += 2 {
		bb := (header >> uint(packed.GroupSize+i)) & 0x3
		lut := booleanLUT[bb]
		t.data[destBase+i] = lut[0]
		t.data[destBase+i+1] = lut[1] + t.src.ColMin(i)
		if i+1 < nBool {
			t.data[destBase+i] += t.src.ColMin(i + 1)
		}
	}

	unpaddedRowSize := t.src.UnpaddedRowSize()
	for vecBase := 0; vecBase < unpaddedRowSize; vecBase += 4 {
		// addresses vecBase+0 .. vecBase+3, never a reset to vecBase's
		// own index (see spec note on the off-by-assignment typo).
		for k := 0; k < 4 && vecBase+k < unpaddedRowSize; k++ {
			vecIdx := vecBase + k
			for _, p := range t.pairByVector[vecIdx] {
				v := t.src.RowVector(srcRow, vecIdx)
				shuffled := simd.Shuffle(v, p.Ctl)
				colA := t.src.NonBoolColumn(p.FirstNonBool)
				t.data[destBase+t.colOffset[colA]] = int64(simd.ExtractI64(shuffled, 0)) + t.src.ColMin(colA)
				if p.Count == 2 {
					colB := t.src.NonBoolColumn(p.FirstNonBool + 1)
					t.data[destBase+t.colOffset[colB]] = int64(simd.ExtractI64(shuffled, 1)) + t.src.ColMin(colB)
				}
			}
		}
		if prefetchRow >= 0 && prefetchRow < t.src.NRows() && vecBase < unpaddedRowSize {
			v := t.src.RowVector(prefetchRow, vecBase)
			simd.Prefetch(&v)
		}
	}

	return nil
}

func loadHeader(v simd.Vec) uint32 {
	return uint32(v[0]) | uint32(v[1])<<8 | uint32(v[2])<<16 | uint32(v[3])<<24
}
