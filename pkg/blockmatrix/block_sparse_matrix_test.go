package blockmatrix_test

import (
	"bytes"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/edp1096/blocklac/internal/check"
	"github.com/edp1096/blocklac/pkg/blockmatrix"
	"github.com/edp1096/blocklac/pkg/vector"
)

var denseRef = mat.NewDense(3, 3, []float64{
	1, 2, 0,
	0, 3, 4,
	5, 0, 6,
})

func newMatrix(t *testing.T, rowSizes, colSizes []int, opts ...blockmatrix.Option) *blockmatrix.BlockSparseMatrix {
	t.Helper()
	m := blockmatrix.New(opts...)
	require.NoError(t, m.ReinitSizes(rowSizes, colSizes))
	t.Cleanup(m.Destroy)
	return m
}

func requireMatches(t *testing.T, want mat.Matrix, m *blockmatrix.BlockSparseMatrix) {
	t.Helper()
	r, c := want.Dims()
	require.Equal(t, r, m.Rows())
	require.Equal(t, c, m.Cols())
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			require.Equal(t, want.At(i, j), m.El(i, j), "entry (%d,%d)", i, j)
		}
	}
}

func TestReinitSizesLayout(t *testing.T) {
	m := newMatrix(t, []int{2, 1}, []int{1, 2})
	require.Equal(t, 2, m.NBlockRows())
	require.Equal(t, 2, m.NBlockCols())
	require.Equal(t, 3, m.Rows())
	require.Equal(t, 3, m.Cols())
	require.Equal(t, 2, m.Block(0, 1).Rows())
	require.Equal(t, 2, m.Block(1, 1).Cols())
	require.Equal(t, []int{2, 1}, m.RowIndices().Sizes())
	require.Equal(t, []int{1, 2}, m.ColIndices().Sizes())
	require.True(t, m.IsCompressed())
	require.Zero(t, m.NonZeros())
}

func TestBlockOutOfRange(t *testing.T) {
	m := newMatrix(t, []int{1}, []int{1})
	requirePanicIs(t, blockmatrix.ErrOutOfRange, func() { m.Block(1, 0) })
	requirePanicIs(t, blockmatrix.ErrOutOfRange, func() { m.Block(0, -1) })
}

func TestCollectSizesIncompatible(t *testing.T) {
	m := blockmatrix.New()
	m.Reinit(2, 2)
	require.NoError(t, m.Block(0, 0).Reinit(2, 1))
	require.NoError(t, m.Block(0, 1).Reinit(3, 2))
	require.NoError(t, m.Block(1, 0).Reinit(1, 1))
	require.NoError(t, m.Block(1, 1).Reinit(1, 2))
	require.ErrorIs(t, m.CollectSizes(), blockmatrix.ErrIncompatibleRowNumbers)

	require.NoError(t, m.Block(0, 1).Reinit(2, 2))
	require.NoError(t, m.Block(1, 1).Reinit(1, 3))
	require.ErrorIs(t, m.CollectSizes(), blockmatrix.ErrIncompatibleColNumbers)

	require.NoError(t, m.Block(1, 1).Reinit(1, 2))
	require.NoError(t, m.CollectSizes())
	require.Equal(t, 3, m.Rows())
	require.Equal(t, 3, m.Cols())
	m.Destroy()
}

func TestSetAcrossBlocks(t *testing.T) {
	m := newMatrix(t, []int{2, 1}, []int{1, 2})
	m.Set([]int{0, 1, 2}, []int{0, 1, 2}, denseRef.RawMatrix().Data)
	require.False(t, m.IsCompressed())
	m.Compress()
	require.True(t, m.IsCompressed())
	requireMatches(t, denseRef, m)
	require.Equal(t, 9, m.NonZeros())
}

func TestSetIsIdempotentAddAccumulates(t *testing.T) {
	m := newMatrix(t, []int{3, 3}, []int{3, 3})
	cols := []int{1, 4, 5}
	values := []float64{10, 20, 30}

	m.SetRow(2, cols, values)
	m.SetRow(2, cols, values)
	require.Equal(t, 10.0, m.El(2, 1))
	require.Equal(t, 20.0, m.El(2, 4))
	require.Equal(t, 30.0, m.El(2, 5))

	m.AddRow(2, cols, values)
	require.Equal(t, 20.0, m.El(2, 1))
	require.Equal(t, 40.0, m.El(2, 4))
	require.Equal(t, 60.0, m.El(2, 5))
	require.Zero(t, m.El(2, 3))
	require.Equal(t, 3, m.NonZeros())

	plan := m.Scratch().Plan()
	require.Equal(t, []int{1, 2}, plan.Length)
	require.Equal(t, []int{0, 1}, plan.Start)
}

func TestSingleEntryWrites(t *testing.T) {
	m := newMatrix(t, []int{1, 2}, []int{2, 1})
	m.SetElement(2, 2, 4)
	m.AddElement(2, 2, 1)
	m.AddElement(0, 1, -1)
	require.Equal(t, 5.0, m.El(2, 2))
	require.Equal(t, 5.0, m.Block(1, 1).El(1, 0))
	require.Equal(t, -1.0, m.Block(0, 0).El(0, 1))
}

func TestUngroupedColumnsPanic(t *testing.T) {
	if !check.Enabled {
		t.Skip("integrity checks disabled")
	}
	m := newMatrix(t, []int{2}, []int{3, 3})
	requirePanicIs(t, blockmatrix.ErrColumnOrder, func() {
		m.AddRow(0, []int{4, 1}, []float64{1, 2})
	})
}

func TestSortedColumnsOption(t *testing.T) {
	m := newMatrix(t, []int{2}, []int{3, 3}, blockmatrix.WithSortedColumns())
	require.True(t, m.Options().SortedColumns())
	m.AddRow(0, []int{4, 1}, []float64{1, 2})
	require.Equal(t, 1.0, m.El(0, 4))
	require.Equal(t, 2.0, m.El(0, 1))
}

func TestSortedMatchesGrouped(t *testing.T) {
	rowSizes := []int{2, 0, 3}
	colSizes := []int{2, 3, 1}
	grouped := newMatrix(t, rowSizes, colSizes)
	sorted := newMatrix(t, rowSizes, colSizes, blockmatrix.WithSortedColumns())
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 20; round++ {
		n := 1 + rng.IntN(6)
		cols := make([]int, n)
		for j := range cols {
			cols[j] = rng.IntN(6)
		}
		rows := []int{rng.IntN(5), rng.IntN(5)}
		values := make([]float64, len(rows)*n)
		for k := range values {
			values[k] = float64(rng.IntN(9) + 1)
		}

		sorted.Add(rows, cols, values)
		for r, row := range rows {
			for j, col := range cols {
				grouped.AddElement(row, col, values[r*n+j])
			}
		}
	}

	for i := 0; i < 5; i++ {
		for j := 0; j < 6; j++ {
			require.Equal(t, grouped.El(i, j), sorted.El(i, j), "entry (%d,%d)", i, j)
		}
	}
}

func TestSetMatrixAndAddMatrix(t *testing.T) {
	m := newMatrix(t, []int{2, 1}, []int{1, 2})
	patch := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	m.SetMatrix([]int{0, 2}, []int{0, 2}, patch)
	m.AddMatrix([]int{0, 2}, []int{0, 2}, patch.T())

	require.Equal(t, 2.0, m.El(0, 0))
	require.Equal(t, 5.0, m.El(0, 2))
	require.Equal(t, 5.0, m.El(2, 0))
	require.Equal(t, 8.0, m.El(2, 2))

	if check.Enabled {
		requirePanicIs(t, blockmatrix.ErrDimensionMismatch, func() {
			m.SetMatrix([]int{0}, []int{0, 2}, patch)
		})
	}
}

func TestZeroKeepsPatternClearDropsBlocks(t *testing.T) {
	m := newMatrix(t, []int{2, 1}, []int{1, 2})
	m.Set([]int{0, 1, 2}, []int{0, 1, 2}, denseRef.RawMatrix().Data)
	m.Zero()
	require.Equal(t, 9, m.NonZeros())
	require.Zero(t, m.El(2, 2))

	m.Clear()
	require.Zero(t, m.NBlockRows())
	require.Zero(t, m.NBlockCols())
	require.Zero(t, m.NonZeros())
}

func TestReinitFromDense(t *testing.T) {
	src := mat.NewDense(2, 3, []float64{
		1, 1e-14, 0,
		0, -2, 1e-3,
	})
	m := blockmatrix.New()
	require.NoError(t, m.ReinitFromDense([]int{1, 1}, []int{2, 1}, src))
	require.Equal(t, 3, m.NonZeros())
	require.Zero(t, m.El(0, 1))
	require.Equal(t, 1e-3, m.El(1, 2))
	require.True(t, m.IsCompressed())

	loose := blockmatrix.New(blockmatrix.WithDropTolerance(1e-2))
	require.NoError(t, loose.ReinitFromDense([]int{2}, []int{3}, src))
	require.Equal(t, 2, loose.NonZeros())

	require.ErrorIs(t, m.ReinitFromDense([]int{1}, []int{3}, src), blockmatrix.ErrDimensionMismatch)
}

func TestWithDropToleranceRejectsInvalid(t *testing.T) {
	require.Panics(t, func() { blockmatrix.WithDropTolerance(-1) })
	require.Panics(t, func() { blockmatrix.WithDropTolerance(math.NaN()) })
	require.Equal(t, 1e-13, blockmatrix.New().Options().DropTolerance())
}

func TestPrint(t *testing.T) {
	m := newMatrix(t, []int{1}, []int{1, 1})
	m.SetElement(0, 1, 2)
	var buf bytes.Buffer
	m.Print(&buf)
	require.Contains(t, buf.String(), "Block matrix 1x2, blocks 1x2, 1 entries")
	require.Contains(t, buf.String(), "[0,1] Block 1x1, 1 entries")
	require.Contains(t, buf.String(), "(0)+2")
}

func TestVMultAndTVMult(t *testing.T) {
	m := newMatrix(t, []int{2, 1}, []int{1, 2})
	m.Set([]int{0, 1, 2}, []int{0, 1, 2}, denseRef.RawMatrix().Data)
	m.Compress()

	src := vector.NewBlockVector(1, 2)
	src.Fill(1)
	dst := vector.NewBlockVector(2, 1)
	require.NoError(t, m.VMult(dst, src))
	require.Equal(t, []float64{3, 7}, dst.Block(0).Raw())
	require.Equal(t, []float64{11}, dst.Block(1).Raw())

	y := vector.NewBlockVector(2, 1)
	y.CopyFromVector(vector.NewFrom([]float64{1, 2, 3}))
	out := vector.NewBlockVector(1, 2)
	require.NoError(t, m.TVMult(out, y))
	flat := vector.New(0)
	out.CopyToVector(flat)
	require.Equal(t, []float64{16, 8, 26}, flat.Raw())

	require.ErrorIs(t, m.VMult(vector.NewBlockVector(3), src), blockmatrix.ErrDimensionMismatch)
	require.ErrorIs(t, m.TVMult(out, src), blockmatrix.ErrDimensionMismatch)
}

func TestFlatProducts(t *testing.T) {
	m := newMatrix(t, []int{2, 1}, []int{1, 2})
	m.Set([]int{0, 1, 2}, []int{0, 1, 2}, denseRef.RawMatrix().Data)
	m.Compress()

	dst := vector.New(3)
	require.NoError(t, m.VMultVector(dst, vector.NewFrom([]float64{1, 1, 1})))
	require.Equal(t, []float64{3, 7, 11}, dst.Raw())

	require.NoError(t, m.TVMultVector(dst, vector.NewFrom([]float64{1, 2, 3})))
	require.Equal(t, []float64{16, 8, 26}, dst.Raw())

	require.ErrorIs(t, m.VMultVector(vector.New(2), dst), blockmatrix.ErrDimensionMismatch)
}

func TestResidual(t *testing.T) {
	m := newMatrix(t, []int{2, 1}, []int{1, 2})
	m.Set([]int{0, 1, 2}, []int{0, 1, 2}, denseRef.RawMatrix().Data)
	m.Compress()

	x := vector.NewBlockVector(1, 2)
	x.Fill(1)
	b := vector.NewBlockVector(2, 1)
	b.CopyFromVector(vector.NewFrom([]float64{4, 7, 10}))
	dst := vector.NewBlockVector(2, 1)

	norm, err := m.Residual(dst, x, b)
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt2, norm, 1e-12)
	require.Equal(t, []float64{1, 0}, dst.Block(0).Raw())
	require.Equal(t, []float64{-1}, dst.Block(1).Raw())

	_, err = m.Residual(x, x, b)
	require.ErrorIs(t, err, blockmatrix.ErrAliasedVectors)

	flatDst := vector.New(3)
	flatX := vector.NewFrom([]float64{1, 1, 1})
	norm, err = m.ResidualVector(flatDst, flatX, vector.NewFrom([]float64{3, 7, 11}))
	require.NoError(t, err)
	require.Zero(t, norm)

	_, err = m.ResidualVector(flatX, flatX, flatDst)
	require.ErrorIs(t, err, blockmatrix.ErrAliasedVectors)
}

func TestProductsRejectAliasedOutput(t *testing.T) {
	m := newMatrix(t, []int{1, 1}, []int{1, 1})
	m.Set([]int{0, 1}, []int{0, 1}, []float64{2, 0, 0, 2})
	m.Compress()

	v := vector.NewBlockVector(1, 1)
	v.Fill(1)
	require.ErrorIs(t, m.VMult(v, v), blockmatrix.ErrAliasedVectors)
	require.ErrorIs(t, m.TVMult(v, v), blockmatrix.ErrAliasedVectors)
	require.Equal(t, []float64{1}, v.Block(0).Raw())

	x := vector.NewBlockVector(1, 1)
	_, err := m.Residual(v, x, v)
	require.ErrorIs(t, err, blockmatrix.ErrAliasedVectors)

	flat := vector.NewFrom([]float64{1, 1})
	_, err = m.ResidualVector(flat, vector.New(2), flat)
	require.ErrorIs(t, err, blockmatrix.ErrAliasedVectors)

	require.NoError(t, m.VMultVector(flat, flat))
	require.Equal(t, []float64{2, 2}, flat.Raw())
	require.NoError(t, m.TVMultVector(flat, flat))
	require.Equal(t, []float64{4, 4}, flat.Raw())

	dst := vector.NewBlockVector(1, 1)
	norm, err := m.Residual(dst, x, v)
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt2, norm, 1e-12)
}
