package blockmatrix

import (
	"fmt"

	"github.com/edp1096/blocklac/pkg/vector"
)

func (m *BlockSparseMatrix) checkVectors(dst, src *vector.BlockVector, transposed bool) error {
	if dst == src {
		return ErrAliasedVectors
	}
	rowIdx, colIdx := m.rowIndices, m.colIndices
	if transposed {
		rowIdx, colIdx = colIdx, rowIdx
	}
	if !dst.Indices().Equal(rowIdx) {
		return fmt.Errorf("dst blocks %v, matrix %v: %w", dst.Indices().Sizes(), rowIdx.Sizes(), ErrDimensionMismatch)
	}
	if !src.Indices().Equal(colIdx) {
		return fmt.Errorf("src blocks %v, matrix %v: %w", src.Indices().Sizes(), colIdx.Sizes(), ErrDimensionMismatch)
	}
	return nil
}

// VMult computes dst = M src block by block.
func (m *BlockSparseMatrix) VMult(dst, src *vector.BlockVector) error {
	if err := m.checkVectors(dst, src, false); err != nil {
		return err
	}
	for r := 0; r < m.NBlockRows(); r++ {
		out := dst.Block(r).Raw()
		for i := range out {
			out[i] = 0
		}
		for c := 0; c < m.NBlockCols(); c++ {
			if err := m.blocks[r][c].VMultAdd(out, src.Block(c).Raw()); err != nil {
				return fmt.Errorf("block [%d,%d]: %w", r, c, err)
			}
		}
	}
	return nil
}

// TVMult computes dst = M^T src block by block.
func (m *BlockSparseMatrix) TVMult(dst, src *vector.BlockVector) error {
	if err := m.checkVectors(dst, src, true); err != nil {
		return err
	}
	for c := 0; c < m.NBlockCols(); c++ {
		out := dst.Block(c).Raw()
		for i := range out {
			out[i] = 0
		}
		for r := 0; r < m.NBlockRows(); r++ {
			if err := m.blocks[r][c].TVMultAdd(out, src.Block(r).Raw()); err != nil {
				return fmt.Errorf("block [%d,%d]: %w", r, c, err)
			}
		}
	}
	return nil
}

// split copies a flat vector into a block vector with the given block sizes.
func split(flat *vector.Vector, sizes []int) (*vector.BlockVector, error) {
	blocked := vector.NewBlockVector(sizes...)
	if flat.Size() != blocked.Size() {
		return nil, fmt.Errorf("vector %d, matrix %d: %w", flat.Size(), blocked.Size(), ErrDimensionMismatch)
	}
	blocked.CopyFromVector(flat)
	return blocked, nil
}

// VMultVector computes dst = M src for flat vectors. Both are copied into
// block form, so dst may be src.
func (m *BlockSparseMatrix) VMultVector(dst, src *vector.Vector) error {
	return m.flatProduct(dst, src, false)
}

// TVMultVector computes dst = M^T src for flat vectors.
func (m *BlockSparseMatrix) TVMultVector(dst, src *vector.Vector) error {
	return m.flatProduct(dst, src, true)
}

func (m *BlockSparseMatrix) flatProduct(dst, src *vector.Vector, transposed bool) error {
	outSizes, inSizes := m.rowIndices.Sizes(), m.colIndices.Sizes()
	if transposed {
		outSizes, inSizes = inSizes, outSizes
	}
	in, err := split(src, inSizes)
	if err != nil {
		return err
	}
	out, err := split(dst, outSizes)
	if err != nil {
		return err
	}

	if transposed {
		err = m.TVMult(out, in)
	} else {
		err = m.VMult(out, in)
	}
	if err != nil {
		return err
	}
	out.CopyToVector(dst)
	return nil
}

// Residual computes dst = b - M x and returns the l2 norm of dst.
func (m *BlockSparseMatrix) Residual(dst, x, b *vector.BlockVector) (float64, error) {
	if dst == x || dst == b {
		return 0, ErrAliasedVectors
	}
	if !b.SameLayout(dst) {
		return 0, fmt.Errorf("rhs blocks %v, dst %v: %w", b.Indices().Sizes(), dst.Indices().Sizes(), ErrDimensionMismatch)
	}
	if err := m.VMult(dst, x); err != nil {
		return 0, err
	}
	dst.SaddScaled(-1, 1, b)
	return dst.L2Norm(), nil
}

// ResidualVector is Residual for flat vectors.
func (m *BlockSparseMatrix) ResidualVector(dst, x, b *vector.Vector) (float64, error) {
	if dst == x || dst == b {
		return 0, ErrAliasedVectors
	}
	if b.Size() != dst.Size() {
		return 0, fmt.Errorf("rhs %d, dst %d: %w", b.Size(), dst.Size(), ErrDimensionMismatch)
	}
	if err := m.VMultVector(dst, x); err != nil {
		return 0, err
	}
	dst.SaddScaled(-1, 1, b)
	return dst.L2Norm(), nil
}
