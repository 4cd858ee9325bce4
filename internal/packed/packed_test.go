package packed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S1: single row, two non-boolean columns.
func TestTable_S1(t *testing.T) {
	tbl, err := New(1, []int64{0, 0}, []int64{255, 65535})
	require.NoError(t, err)
	require.Equal(t, 0, tbl.NBooleanCols())

	require.NoError(t, tbl.SetCell(0, 0, 42))
	require.NoError(t, tbl.SetCell(0, 1, 1000))

	v0, err := tbl.GetCell(0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 42, v0)

	v1, err := tbl.GetCell(0, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1000, v1)

	g, err := tbl.GetGroup(0)
	require.NoError(t, err)
	require.EqualValues(t, 0, g)
}

// S2: two boolean columns and one byte-wide signed column.
func TestTable_S2(t *testing.T) {
	tbl, err := New(4, []int64{0, 0, -10}, []int64{1, 1, 10})
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NBooleanCols())

	r := 2
	require.NoError(t, tbl.SetCell(r, 0, 1))
	require.NoError(t, tbl.SetCell(r, 1, 0))
	require.NoError(t, tbl.SetCell(r, 2, -5))
	require.NoError(t, tbl.SetGroup(r, 7))

	v0, _ := tbl.GetCell(r, 0)
	v1, _ := tbl.GetCell(r, 1)
	v2, _ := tbl.GetCell(r, 2)
	g, _ := tbl.GetGroup(r)

	require.EqualValues(t, 1, v0)
	require.EqualValues(t, 0, v1)
	require.EqualValues(t, -5, v2)
	require.EqualValues(t, 7, g)
}

// Property 1: round-trip for every row/column within range.
func TestTable_RoundTrip(t *testing.T) {
	mins := []int64{0, -100, 0, 0}
	maxs := []int64{1, 100, 255, 1 << 20}
	tbl, err := New(8, mins, maxs)
	require.NoError(t, err)

	for row := 0; row < tbl.NRows(); row++ {
		for col := 0; col < tbl.NCols(); col++ {
			v := mins[col] + int64(row)%(maxs[col]-mins[col]+1)
			require.NoError(t, tbl.SetCell(row, col, v))
			got, err := tbl.GetCell(row, col)
			require.NoError(t, err)
			require.Equalf(t, v, got, "row=%d col=%d", row, col)
		}
	}
}

// Property 2: non-interference across columns within a row.
func TestTable_NonInterference(t *testing.T) {
	tbl, err := New(2, []int64{0, 0, 0}, []int64{1, 255, 65535})
	require.NoError(t, err)

	require.NoError(t, tbl.SetCell(0, 1, 10))
	require.NoError(t, tbl.SetCell(0, 2, 20))
	require.NoError(t, tbl.SetCell(0, 0, 1))

	require.NoError(t, tbl.SetCell(0, 1, 200))

	v0, _ := tbl.GetCell(0, 0)
	v2, _ := tbl.GetCell(0, 2)
	require.EqualValues(t, 1, v0)
	require.EqualValues(t, 20, v2)
}

// Property 3: row independence.
func TestTable_RowIndependence(t *testing.T) {
	tbl, err := New(3, []int64{0}, []int64{1000})
	require.NoError(t, err)

	require.NoError(t, tbl.SetCell(0, 0, 111))
	require.NoError(t, tbl.SetCell(1, 0, 222))
	require.NoError(t, tbl.SetCell(2, 0, 333))

	v0, _ := tbl.GetCell(0, 0)
	v1, _ := tbl.GetCell(1, 0)
	v2, _ := tbl.GetCell(2, 0)
	require.EqualValues(t, 111, v0)
	require.EqualValues(t, 222, v1)
	require.EqualValues(t, 333, v2)
}

// Property 4: group header isolation.
func TestTable_GroupHeaderIsolation(t *testing.T) {
	tbl, err := New(2, []int64{0, 0}, []int64{1, 255})
	require.NoError(t, err)

	require.NoError(t, tbl.SetCell(0, 0, 1))
	require.NoError(t, tbl.SetCell(0, 1, 99))
	require.NoError(t, tbl.SetGroup(0, (1<<GroupSize)-1))

	v0, _ := tbl.GetCell(0, 0)
	v1, _ := tbl.GetCell(0, 1)
	g, _ := tbl.GetGroup(0)
	require.EqualValues(t, 1, v0)
	require.EqualValues(t, 99, v1)
	require.EqualValues(t, (1<<GroupSize)-1, g)

	require.NoError(t, tbl.SetGroup(0, 0))
	v0, _ = tbl.GetCell(0, 0)
	v1, _ = tbl.GetCell(0, 1)
	require.EqualValues(t, 1, v0)
	require.EqualValues(t, 99, v1)
}

func TestTable_ZeroRangeColumn(t *testing.T) {
	tbl, err := New(1, []int64{5, 0}, []int64{5, 255})
	require.NoError(t, err)
	require.Equal(t, 1, tbl.NBooleanCols()) // the zero-range column promotes to a bit field

	v, err := tbl.GetCell(0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 5, v)
}

func TestTable_SchemaErrors(t *testing.T) {
	_, err := New(1, []int64{10}, []int64{5})
	require.Error(t, err)

	// A 63-bit range needs exactly 8 bytes, the widest legal column.
	_, err = New(1, []int64{0}, []int64{1 << 62})
	require.NoError(t, err)
}

func TestTable_OutOfRangeIndices(t *testing.T) {
	tbl, err := New(2, []int64{0}, []int64{10})
	require.NoError(t, err)

	_, err = tbl.GetCell(5, 0)
	require.Error(t, err)
	_, err = tbl.GetCell(0, 5)
	require.Error(t, err)
}

func TestTable_BatchRoundTrip(t *testing.T) {
	tbl, err := New(4, []int64{0}, []int64{1000})
	require.NoError(t, err)

	rows := []int{0, 1, 2, 3}
	values := []int64{10, 20, 30, 40}
	require.NoError(t, tbl.SetCellBatch(rows, 0, values))

	got, err := tbl.GetCellBatch(rows, 0)
	require.NoError(t, err)
	require.Equal(t, values, got)
}
