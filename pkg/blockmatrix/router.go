package blockmatrix

import (
	"cmp"
	"slices"

	"github.com/edp1096/blocklac/internal/check"
	"github.com/edp1096/blocklac/pkg/blockindex"
	"github.com/edp1096/blocklac/pkg/matrix"
)

// Grid hands out the local writer of block (blockRow, blockCol).
type Grid interface {
	BlockWriter(blockRow, blockCol int) matrix.Writer
}

// Plan is the partition of one column list into per-block runs. Run b covers
// LocalCols[Start[b] : Start[b]+Length[b]]; blocks without columns have
// Length 0 and an unspecified Start.
type Plan struct {
	Start     []int
	Length    []int
	LocalCols []int
}

// Scratch holds the buffers reused across routed writes. Its contents are
// only meaningful between the start and the end of one Route call; the zero
// value is ready to use.
type Scratch struct {
	plan Plan

	// sorted routing
	perm       []int
	blocks     []int
	sortedCols []int
	rowValues  []float64
}

// Plan returns the partition computed by the last routed write. The slices
// alias the scratch buffers and are overwritten by the next call.
func (s *Scratch) Plan() Plan { return s.plan }

func resizeInts(buf []int, n int) []int {
	if cap(buf) < n {
		return make([]int, n)
	}
	return buf[:n]
}

func resizeFloats(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}

// partition resolves cols through colIdx and records one run per column
// block, walking the list once from left to right.
func (s *Scratch) partition(cols []int, colIdx *blockindex.Indices) {
	nBlocks := colIdx.NBlocks()
	s.plan.Start = resizeInts(s.plan.Start, nBlocks)
	s.plan.Length = resizeInts(s.plan.Length, nBlocks)
	s.plan.LocalCols = resizeInts(s.plan.LocalCols, len(cols))
	for b := 0; b < nBlocks; b++ {
		s.plan.Start[b] = 0
		s.plan.Length[b] = 0
	}
	if len(cols) == 0 {
		return
	}

	current, _ := colIdx.GlobalToLocal(cols[0])
	runLength := 0
	for j, col := range cols {
		block, local := colIdx.GlobalToLocal(col)
		s.plan.LocalCols[j] = local
		if block > current {
			s.plan.Length[current] = runLength
			runLength = 0
			for block > current {
				current++
			}
			s.plan.Start[current] = j
		}
		if check.Enabled && block != current {
			check.Fail(ErrColumnOrder, "column %d at position %d is in block %d after block %d", col, j, block, current)
		}
		runLength++
	}
	if current >= nBlocks {
		check.Fail(ErrOutOfRange, "column block %d of %d", current, nBlocks)
	}
	s.plan.Length[current] = runLength

	if check.Enabled {
		length := 0
		for _, l := range s.plan.Length {
			length += l
		}
		check.Assert(length == len(cols), ErrDimensionMismatch, "runs cover %d of %d columns", length, len(cols))
	}
}

// dispatchRow writes one row of values, laid out like the partitioned column
// list, into every block that has a run.
func (s *Scratch) dispatchRow(op matrix.Op, row int, values []float64, rowIdx *blockindex.Indices, grid Grid) {
	blockRow, localRow := rowIdx.GlobalToLocal(row)
	for blockCol, length := range s.plan.Length {
		if length == 0 {
			continue
		}
		start := s.plan.Start[blockCol]
		grid.BlockWriter(blockRow, blockCol).Write(op, localRow,
			s.plan.LocalCols[start:start+length], values[start:start+length])
	}
}

// Route writes the row-major patch values (len(rows) x len(cols)) into the
// blocks of grid. cols must be grouped by block number.
func Route(op matrix.Op, rows, cols []int, values []float64,
	rowIdx, colIdx *blockindex.Indices, grid Grid, s *Scratch) {
	nCols := len(cols)
	check.Assert(len(values) == len(rows)*nCols, ErrDimensionMismatch,
		"%d rows x %d columns with %d values", len(rows), nCols, len(values))

	s.partition(cols, colIdx)
	if nCols == 0 {
		return
	}
	for r, row := range rows {
		s.dispatchRow(op, row, values[r*nCols:(r+1)*nCols], rowIdx, grid)
	}
}

// RouteSorted is Route for column lists in arbitrary order. Columns are
// stably sorted by block number and each row's values are permuted alike
// before dispatch.
func RouteSorted(op matrix.Op, rows, cols []int, values []float64,
	rowIdx, colIdx *blockindex.Indices, grid Grid, s *Scratch) {
	nCols := len(cols)
	check.Assert(len(values) == len(rows)*nCols, ErrDimensionMismatch,
		"%d rows x %d columns with %d values", len(rows), nCols, len(values))

	s.perm = resizeInts(s.perm, nCols)
	s.blocks = resizeInts(s.blocks, nCols)
	for j, col := range cols {
		s.perm[j] = j
		s.blocks[j], _ = colIdx.GlobalToLocal(col)
	}
	slices.SortStableFunc(s.perm, func(a, b int) int { return cmp.Compare(s.blocks[a], s.blocks[b]) })

	s.sortedCols = resizeInts(s.sortedCols, nCols)
	for k, j := range s.perm {
		s.sortedCols[k] = cols[j]
	}
	s.partition(s.sortedCols, colIdx)
	if nCols == 0 {
		return
	}

	s.rowValues = resizeFloats(s.rowValues, nCols)
	for r, row := range rows {
		src := values[r*nCols : (r+1)*nCols]
		for k, j := range s.perm {
			s.rowValues[k] = src[j]
		}
		s.dispatchRow(op, row, s.rowValues, rowIdx, grid)
	}
}
