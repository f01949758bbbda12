package analysis

import (
	"errors"
	"fmt"

	"github.com/edp1096/blocklac/pkg/matrix"
	"github.com/edp1096/blocklac/pkg/system"
	"github.com/edp1096/blocklac/pkg/vector"
)

var (
	ErrNotConverged    = errors.New("analysis: iteration did not converge")
	ErrNonSquareBlocks = errors.New("analysis: diagonal blocks must be square")
	ErrNotFactorized   = errors.New("analysis: diagonal blocks not factorized, call Setup")
)

// BlockGaussSeidel solves Ax = b by sweeping over the block rows, solving
// each diagonal block exactly. It stores X, ITER and NORM.
type BlockGaussSeidel struct {
	BaseAnalysis
	b       string
	maxIter int
	tol     float64

	diag []*matrix.LU
}

// NewBlockGaussSeidel returns the solver for right hand side b. Zero maxIter or
// tol select the defaults.
func NewBlockGaussSeidel(b string, maxIter int, tol float64) *BlockGaussSeidel {
	gs := &BlockGaussSeidel{
		BaseAnalysis: *NewBaseAnalysis(),
		b:            b,
		maxIter:      maxIter,
		tol:          tol,
	}
	if gs.maxIter <= 0 {
		gs.maxIter = gs.convergence.maxIter
	}
	if gs.tol <= 0 {
		gs.tol = gs.convergence.restol
	}
	return gs
}

func (gs *BlockGaussSeidel) Setup(sys *system.System) error {
	m := sys.Matrix()
	if m == nil {
		return system.ErrNoMatrix
	}
	if m.NBlockRows() != m.NBlockCols() {
		return fmt.Errorf("%dx%d block grid: %w", m.NBlockRows(), m.NBlockCols(), ErrNonSquareBlocks)
	}

	gs.release()
	gs.System = sys
	for i := 0; i < m.NBlockRows(); i++ {
		block := m.Block(i, i)
		if block.Rows() != block.Cols() {
			gs.release()
			return fmt.Errorf("block [%d,%d] is %dx%d: %w", i, i, block.Rows(), block.Cols(), ErrNonSquareBlocks)
		}
		lu, err := block.Factorize()
		if err != nil {
			gs.release()
			return fmt.Errorf("diagonal block %d: %w", i, err)
		}
		gs.diag = append(gs.diag, lu)
	}
	return nil
}

func (gs *BlockGaussSeidel) release() {
	for _, lu := range gs.diag {
		lu.Destroy()
	}
	gs.diag = nil
}

// Execute consumes the factors built by Setup.
func (gs *BlockGaussSeidel) Execute() error {
	if gs.diag == nil {
		return ErrNotFactorized
	}
	defer gs.release()

	m := gs.System.Matrix()
	b, err := gs.System.RowVector(gs.b)
	if err != nil {
		return fmt.Errorf("right hand side: %w", err)
	}

	sizes := m.RowIndices().Sizes()
	x := vector.NewBlockVector(sizes...)
	r := vector.NewBlockVector(sizes...)
	bNorm := b.L2Norm()

	oldSolution := vector.New(x.Size())
	newSolution := vector.New(x.Size())
	var norm float64

	for iter := 1; iter <= gs.maxIter; iter++ {
		for i := range sizes {
			if sizes[i] == 0 {
				continue
			}
			rhs := r.Block(i)
			rhs.CopyFrom(b.Block(i))
			for j := range sizes {
				if j == i {
					continue
				}
				if err := m.Block(i, j).VMultAdd(rhs.Raw(), scaled(x.Block(j), -1)); err != nil {
					return fmt.Errorf("block [%d,%d]: %w", i, j, err)
				}
			}
			xi, err := gs.diag[i].Solve(rhs.Raw())
			if err != nil {
				return fmt.Errorf("diagonal block %d: %w", i, err)
			}
			copy(x.Block(i).Raw(), xi)
		}

		norm, err = m.Residual(r, x, b)
		if err != nil {
			return fmt.Errorf("residual: %w", err)
		}
		x.CopyToVector(newSolution)

		if norm <= gs.tol*bNorm || norm <= gs.convergence.abstol ||
			(iter > 1 && gs.CheckConvergence(oldSolution.Raw(), newSolution.Raw())) {
			gs.StoreVector("X", newSolution.Raw())
			gs.StoreScalar("ITER", float64(iter))
			gs.StoreScalar("NORM", norm)
			return nil
		}
		oldSolution.CopyFrom(newSolution)
	}

	return fmt.Errorf("residual %g after %d iterations: %w", norm, gs.maxIter, ErrNotConverged)
}

func scaled(v *vector.Vector, factor float64) []float64 {
	out := v.Clone()
	out.Scale(factor)
	return out.Raw()
}
