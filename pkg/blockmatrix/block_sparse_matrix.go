package blockmatrix

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/edp1096/blocklac/internal/check"
	"github.com/edp1096/blocklac/pkg/blockindex"
	"github.com/edp1096/blocklac/pkg/matrix"
)

// BlockSparseMatrix owns a grid of sparse blocks. Blocks in one block row
// share their row count and blocks in one block column share their column
// count once CollectSizes has succeeded.
type BlockSparseMatrix struct {
	blocks     [][]*matrix.SparseMatrix
	rowIndices *blockindex.Indices
	colIndices *blockindex.Indices
	options    Options

	scratch   Scratch
	valueBuf  []float64
	singleRow [1]int
}

// New returns an empty 0x0 block matrix.
func New(opts ...Option) *BlockSparseMatrix {
	return &BlockSparseMatrix{
		rowIndices: blockindex.New(),
		colIndices: blockindex.New(),
		options:    gatherOptions(opts...),
	}
}

func (m *BlockSparseMatrix) Options() Options { return m.options }

// Reinit discards every block and replaces the grid by nBlockRows x
// nBlockCols empty blocks. Size the blocks through Block(i, j).Reinit and call
// CollectSizes afterwards.
func (m *BlockSparseMatrix) Reinit(nBlockRows, nBlockCols int) {
	m.Destroy()
	m.blocks = make([][]*matrix.SparseMatrix, nBlockRows)
	for r := range m.blocks {
		m.blocks[r] = make([]*matrix.SparseMatrix, nBlockCols)
		for c := range m.blocks[r] {
			m.blocks[r][c], _ = matrix.NewSparseMatrix(0, 0)
		}
	}
	m.rowIndices.Reinit(make([]int, nBlockRows)...)
	m.colIndices.Reinit(make([]int, nBlockCols)...)
}

// ReinitSizes builds a grid whose block (r, c) is rowSizes[r] x colSizes[c]
// and collects the sizes.
func (m *BlockSparseMatrix) ReinitSizes(rowSizes, colSizes []int) error {
	m.Reinit(len(rowSizes), len(colSizes))
	for r, rows := range rowSizes {
		for c, cols := range colSizes {
			if err := m.blocks[r][c].Reinit(rows, cols); err != nil {
				return fmt.Errorf("block [%d,%d]: %w", r, c, err)
			}
		}
	}
	return m.CollectSizes()
}

// ReinitFromDense builds the grid from rowSizes and colSizes and copies every
// entry of src whose magnitude exceeds the drop tolerance.
func (m *BlockSparseMatrix) ReinitFromDense(rowSizes, colSizes []int, src mat.Matrix) error {
	r, c := src.Dims()
	if sum(rowSizes) != r || sum(colSizes) != c {
		return fmt.Errorf("blocks %v x %v for %dx%d matrix: %w", rowSizes, colSizes, r, c, ErrDimensionMismatch)
	}
	if err := m.ReinitSizes(rowSizes, colSizes); err != nil {
		return err
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if value := src.At(i, j); math.Abs(value) > m.options.dropTolerance {
				m.SetElement(i, j, value)
			}
		}
	}
	m.Compress()
	return nil
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

// CollectSizes rebuilds the row and column index maps from the block shapes
// and compresses the matrix. It must follow any direct resize of blocks.
func (m *BlockSparseMatrix) CollectSizes() error {
	nBlockRows, nBlockCols := m.NBlockRows(), m.NBlockCols()

	rowSizes := make([]int, nBlockRows)
	colSizes := make([]int, nBlockCols)
	for r := 0; r < nBlockRows && nBlockCols > 0; r++ {
		rowSizes[r] = m.blocks[r][0].Rows()
		for c := 1; c < nBlockCols; c++ {
			if m.blocks[r][c].Rows() != rowSizes[r] {
				return fmt.Errorf("blocks [%d,%d] and [%d,%d]: %w", r, 0, r, c, ErrIncompatibleRowNumbers)
			}
		}
	}
	for c := 0; c < nBlockCols && nBlockRows > 0; c++ {
		colSizes[c] = m.blocks[0][c].Cols()
		for r := 1; r < nBlockRows; r++ {
			if m.blocks[r][c].Cols() != colSizes[c] {
				return fmt.Errorf("blocks [%d,%d] and [%d,%d]: %w", 0, c, r, c, ErrIncompatibleColNumbers)
			}
		}
	}

	m.rowIndices.Reinit(rowSizes...)
	m.colIndices.Reinit(colSizes...)
	m.Compress()
	return nil
}

func (m *BlockSparseMatrix) NBlockRows() int { return len(m.blocks) }

func (m *BlockSparseMatrix) NBlockCols() int {
	if len(m.blocks) == 0 {
		return 0
	}
	return len(m.blocks[0])
}

// Rows returns the global row count as of the last CollectSizes.
func (m *BlockSparseMatrix) Rows() int { return m.rowIndices.Size() }

// Cols returns the global column count as of the last CollectSizes.
func (m *BlockSparseMatrix) Cols() int { return m.colIndices.Size() }

func (m *BlockSparseMatrix) RowIndices() *blockindex.Indices { return m.rowIndices }
func (m *BlockSparseMatrix) ColIndices() *blockindex.Indices { return m.colIndices }

func (m *BlockSparseMatrix) Block(blockRow, blockCol int) *matrix.SparseMatrix {
	if blockRow < 0 || blockRow >= m.NBlockRows() || blockCol < 0 || blockCol >= m.NBlockCols() {
		check.Fail(ErrOutOfRange, "block [%d,%d] in %dx%d grid", blockRow, blockCol, m.NBlockRows(), m.NBlockCols())
	}
	return m.blocks[blockRow][blockCol]
}

// BlockWriter implements Grid.
func (m *BlockSparseMatrix) BlockWriter(blockRow, blockCol int) matrix.Writer {
	return m.Block(blockRow, blockCol)
}

// Compress finishes assembly on every block.
func (m *BlockSparseMatrix) Compress() {
	for _, row := range m.blocks {
		for _, block := range row {
			block.Compress()
		}
	}
}

// IsCompressed reports whether no block has been written since the last
// Compress.
func (m *BlockSparseMatrix) IsCompressed() bool {
	for _, row := range m.blocks {
		for _, block := range row {
			if !block.IsCompressed() {
				return false
			}
		}
	}
	return true
}

// NonZeros returns the number of stored entries over all blocks.
func (m *BlockSparseMatrix) NonZeros() int {
	count := 0
	for _, row := range m.blocks {
		for _, block := range row {
			count += block.NonZeros()
		}
	}
	return count
}

// Zero sets every stored entry to zero, keeping the pattern.
func (m *BlockSparseMatrix) Zero() {
	for _, row := range m.blocks {
		for _, block := range row {
			block.Clear()
		}
	}
}

// Clear drops all blocks, leaving a 0x0 grid.
func (m *BlockSparseMatrix) Clear() { m.Reinit(0, 0) }

func (m *BlockSparseMatrix) Destroy() {
	for _, row := range m.blocks {
		for _, block := range row {
			block.Destroy()
		}
	}
	m.blocks = nil
}

func (m *BlockSparseMatrix) locate(i, j int) (block *matrix.SparseMatrix, localRow, localCol int) {
	blockRow, localRow := m.rowIndices.GlobalToLocal(i)
	blockCol, localCol := m.colIndices.GlobalToLocal(j)
	return m.blocks[blockRow][blockCol], localRow, localCol
}

// El returns entry (i, j), zero when not stored.
func (m *BlockSparseMatrix) El(i, j int) float64 {
	block, li, lj := m.locate(i, j)
	return block.El(li, lj)
}

// SetElement sets entry (i, j) directly, without routing.
func (m *BlockSparseMatrix) SetElement(i, j int, value float64) {
	block, li, lj := m.locate(i, j)
	block.SetElement(li, lj, value)
}

// AddElement adds to entry (i, j) directly, without routing.
func (m *BlockSparseMatrix) AddElement(i, j int, value float64) {
	block, li, lj := m.locate(i, j)
	block.AddElement(li, lj, value)
}

// Set overwrites the patch rows x cols with the row-major values.
func (m *BlockSparseMatrix) Set(rows, cols []int, values []float64) {
	m.write(matrix.Insert, rows, cols, values)
}

// Add accumulates the row-major values into the patch rows x cols.
func (m *BlockSparseMatrix) Add(rows, cols []int, values []float64) {
	m.write(matrix.Add, rows, cols, values)
}

func (m *BlockSparseMatrix) SetRow(row int, cols []int, values []float64) {
	m.writeRow(matrix.Insert, row, cols, values)
}

func (m *BlockSparseMatrix) AddRow(row int, cols []int, values []float64) {
	m.writeRow(matrix.Add, row, cols, values)
}

// SetMatrix overwrites the patch rows x cols with a dense block of values.
func (m *BlockSparseMatrix) SetMatrix(rows, cols []int, values mat.Matrix) {
	m.writeMatrix(matrix.Insert, rows, cols, values)
}

// AddMatrix accumulates a dense block of values into the patch rows x cols.
func (m *BlockSparseMatrix) AddMatrix(rows, cols []int, values mat.Matrix) {
	m.writeMatrix(matrix.Add, rows, cols, values)
}

func (m *BlockSparseMatrix) writeRow(op matrix.Op, row int, cols []int, values []float64) {
	check.Assert(len(cols) == len(values), ErrDimensionMismatch,
		"%d columns, %d values", len(cols), len(values))
	m.singleRow[0] = row
	m.write(op, m.singleRow[:], cols, values)
}

func (m *BlockSparseMatrix) writeMatrix(op matrix.Op, rows, cols []int, values mat.Matrix) {
	r, c := values.Dims()
	check.Assert(len(rows) == r, ErrDimensionMismatch, "%d row indices, %d value rows", len(rows), r)
	check.Assert(len(cols) == c, ErrDimensionMismatch, "%d column indices, %d value columns", len(cols), c)

	if dense, ok := values.(*mat.Dense); ok {
		if raw := dense.RawMatrix(); raw.Stride == c || r <= 1 {
			m.write(op, rows, cols, raw.Data[:r*c])
			return
		}
	}
	m.valueBuf = resizeFloats(m.valueBuf, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.valueBuf[i*c+j] = values.At(i, j)
		}
	}
	m.write(op, rows, cols, m.valueBuf)
}

func (m *BlockSparseMatrix) write(op matrix.Op, rows, cols []int, values []float64) {
	if m.options.sortedColumns {
		RouteSorted(op, rows, cols, values, m.rowIndices, m.colIndices, m, &m.scratch)
		return
	}
	Route(op, rows, cols, values, m.rowIndices, m.colIndices, m, &m.scratch)
}

// Scratch exposes the routing buffers of the last batched write.
func (m *BlockSparseMatrix) Scratch() *Scratch { return &m.scratch }

func (m *BlockSparseMatrix) Print(w io.Writer) {
	fmt.Fprintf(w, "Block matrix %dx%d, blocks %dx%d, %d entries\n",
		m.Rows(), m.Cols(), m.NBlockRows(), m.NBlockCols(), m.NonZeros())
	for r, row := range m.blocks {
		for c, block := range row {
			fmt.Fprintf(w, "[%d,%d] ", r, c)
			block.Print(w)
		}
	}
}
