package matrix

import (
	"fmt"
	"io"

	"github.com/edp1096/sparse"

	"github.com/edp1096/blocklac/internal/check"
	"github.com/edp1096/blocklac/internal/consts"
)

// SparseMatrix is one block of a block matrix. Indices are 0-based and the
// shape is rows x cols; the engine matrix is square of order max(rows, cols)
// and 1-based, so local (i, j) lives at engine (i+1, j+1). A block with no
// rows or no columns owns no engine matrix.
type SparseMatrix struct {
	rows       int
	cols       int
	matrix     *sparse.Matrix
	config     *sparse.Configuration
	compressed bool
}

func newConfig() *sparse.Configuration {
	return &sparse.Configuration{
		Real:                    true,
		Complex:                 false,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           true,
		TiesMultiplier:          consts.TIES_MULTIPLIER,
		PrinterWidth:            consts.PRINTER_WIDTH,
		Annotate:                0,
	}
}

func NewSparseMatrix(rows, cols int) (*SparseMatrix, error) {
	m := &SparseMatrix{}
	if err := m.Reinit(rows, cols); err != nil {
		return nil, err
	}
	return m, nil
}

// Reinit drops all entries and resizes the block.
func (m *SparseMatrix) Reinit(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("reinit %dx%d: %w", rows, cols, ErrBadShape)
	}
	m.Destroy()
	m.rows, m.cols = rows, cols
	m.config = newConfig()
	m.compressed = true

	if rows == 0 || cols == 0 {
		return nil
	}

	mat, err := sparse.Create(int64(max(rows, cols)), m.config)
	if err != nil {
		return fmt.Errorf("creating sparse matrix: %w", err)
	}
	m.matrix = mat
	return nil
}

func (m *SparseMatrix) Rows() int { return m.rows }
func (m *SparseMatrix) Cols() int { return m.cols }

// NonZeros returns the number of stored entries, including explicit zeros.
func (m *SparseMatrix) NonZeros() int {
	if m.matrix == nil {
		return 0
	}
	return m.matrix.ElementCount()
}

func (m *SparseMatrix) checkIndex(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		check.Fail(ErrOutOfRange, "(%d,%d) in %dx%d block", i, j, m.rows, m.cols)
	}
}

// element returns the stored entry at (i, j), creating it when absent.
func (m *SparseMatrix) element(i, j int) *sparse.Element {
	m.checkIndex(i, j)
	return m.matrix.GetElement(int64(i+1), int64(j+1))
}

// find walks column j without creating entries.
func (m *SparseMatrix) find(i, j int) *sparse.Element {
	m.checkIndex(i, j)
	for element := m.matrix.FirstInCol[j+1]; element != nil; element = element.NextInCol {
		if element.Row == int64(i+1) {
			return element
		}
	}
	return nil
}

// El returns the value at (i, j), zero when no entry is stored.
func (m *SparseMatrix) El(i, j int) float64 {
	if element := m.find(i, j); element != nil {
		return element.Real
	}
	return 0
}

func (m *SparseMatrix) SetElement(i, j int, value float64) {
	m.element(i, j).Real = value
	m.compressed = false
}

func (m *SparseMatrix) AddElement(i, j int, value float64) {
	m.element(i, j).Real += value
	m.compressed = false
}

// Write stores values into local row row at the given local columns.
func (m *SparseMatrix) Write(op Op, row int, cols []int, values []float64) {
	check.Assert(len(cols) == len(values), ErrDimensionMismatch,
		"%d columns, %d values", len(cols), len(values))

	for k, col := range cols {
		element := m.element(row, col)
		switch op {
		case Add:
			element.Real += values[k]
		default:
			element.Real = values[k]
		}
	}
	if len(cols) > 0 {
		m.compressed = false
	}
}

func (m *SparseMatrix) Set(row int, cols []int, values []float64) { m.Write(Insert, row, cols, values) }
func (m *SparseMatrix) Add(row int, cols []int, values []float64) { m.Write(Add, row, cols, values) }

// Compress finishes an assembly phase: the engine's row lists are linked so
// products can run.
func (m *SparseMatrix) Compress() {
	if m.matrix != nil {
		m.matrix.LinkRows()
	}
	m.compressed = true
}

func (m *SparseMatrix) IsCompressed() bool { return m.compressed }

// Clear zeroes every stored value and keeps the pattern.
func (m *SparseMatrix) Clear() {
	if m.matrix != nil {
		m.matrix.Clear()
	}
}

// Each calls fn for every stored entry, column by column.
func (m *SparseMatrix) Each(fn func(i, j int, value float64)) {
	if m.matrix == nil {
		return
	}
	for col := int64(1); col <= int64(m.cols); col++ {
		for element := m.matrix.FirstInCol[col]; element != nil; element = element.NextInCol {
			fn(int(element.Row-1), int(col-1), element.Real)
		}
	}
}

// Clone copies shape, pattern and values into an independent block.
func (m *SparseMatrix) Clone() (*SparseMatrix, error) {
	c, err := NewSparseMatrix(m.rows, m.cols)
	if err != nil {
		return nil, err
	}
	m.Each(func(i, j int, value float64) {
		c.element(i, j).Real = value
	})
	c.Compress()
	return c, nil
}

// VMult computes dst = M src.
func (m *SparseMatrix) VMult(dst, src []float64) error { return m.vmult(dst, src, false, false) }

// VMultAdd computes dst += M src.
func (m *SparseMatrix) VMultAdd(dst, src []float64) error { return m.vmult(dst, src, false, true) }

// TVMult computes dst = M^T src.
func (m *SparseMatrix) TVMult(dst, src []float64) error { return m.vmult(dst, src, true, false) }

// TVMultAdd computes dst += M^T src.
func (m *SparseMatrix) TVMultAdd(dst, src []float64) error { return m.vmult(dst, src, true, true) }

func (m *SparseMatrix) vmult(dst, src []float64, transposed, add bool) error {
	rows, cols := m.rows, m.cols
	if transposed {
		rows, cols = cols, rows
	}
	if len(dst) != rows || len(src) != cols {
		return fmt.Errorf("%dx%d block with dst %d, src %d: %w", rows, cols, len(dst), len(src), ErrDimensionMismatch)
	}

	if !add {
		for i := range dst {
			dst[i] = 0
		}
	}
	if m.matrix == nil {
		return nil
	}

	order := max(m.rows, m.cols)
	x := make([]float64, order+1) // 1-based indexing
	copy(x[1:], src)

	var y []float64
	var err error
	if transposed {
		y, _, err = m.matrix.MultplyTransposed(x, nil)
	} else {
		y, _, err = m.matrix.Multiply(x, nil)
	}
	if err != nil {
		return fmt.Errorf("matrix multiply failed: %w", err)
	}

	for i := range dst {
		dst[i] += y[i+1]
	}
	return nil
}

// LU is the factorization of a square block, computed on a private copy so
// the block itself can still be read and written.
type LU struct {
	lu *SparseMatrix
}

// Factorize returns the LU factorization of a square block.
func (m *SparseMatrix) Factorize() (*LU, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("factorize %dx%d block: %w", m.rows, m.cols, ErrNonSquare)
	}
	lu, err := m.Clone()
	if err != nil {
		return nil, err
	}
	if lu.matrix != nil {
		if err := lu.matrix.Factor(); err != nil {
			lu.Destroy()
			return nil, fmt.Errorf("matrix factorization failed: %w", err)
		}
	}
	return &LU{lu: lu}, nil
}

// Solve returns x with M x = rhs for the factored M.
func (f *LU) Solve(rhs []float64) ([]float64, error) {
	n := f.lu.rows
	if len(rhs) != n {
		return nil, fmt.Errorf("solve with rhs %d on %d block: %w", len(rhs), n, ErrDimensionMismatch)
	}
	if f.lu.matrix == nil {
		return []float64{}, nil
	}

	b := make([]float64, n+1) // 1-based indexing
	copy(b[1:], rhs)
	solution, err := f.lu.matrix.Solve(b)
	if err != nil {
		return nil, fmt.Errorf("matrix solve failed: %w", err)
	}

	x := make([]float64, n)
	copy(x, solution[1:n+1])
	return x, nil
}

func (f *LU) Destroy() { f.lu.Destroy() }

// Solve returns x with M x = rhs. The block must be square; the stored
// entries are left as they are.
func (m *SparseMatrix) Solve(rhs []float64) ([]float64, error) {
	if m.rows == m.cols && len(rhs) != m.rows {
		return nil, fmt.Errorf("solve with rhs %d on %d block: %w", len(rhs), m.rows, ErrDimensionMismatch)
	}
	lu, err := m.Factorize()
	if err != nil {
		return nil, err
	}
	defer lu.Destroy()
	return lu.Solve(rhs)
}

// Print writes the block row by row, listing stored entries only.
func (m *SparseMatrix) Print(w io.Writer) {
	fmt.Fprintf(w, "Block %dx%d, %d entries\n", m.rows, m.cols, m.NonZeros())
	if m.matrix == nil {
		return
	}
	for i := 0; i < m.rows; i++ {
		rowHasElements := false
		for j := 0; j < m.cols; j++ {
			if element := m.find(i, j); element != nil {
				if !rowHasElements {
					fmt.Fprintf(w, "  row %d:", i)
					rowHasElements = true
				}
				fmt.Fprintf(w, " (%d)%+g", j, element.Real)
			}
		}
		if rowHasElements {
			fmt.Fprintln(w)
		}
	}
}

func (m *SparseMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
	}
}
