package analysis

import (
	"fmt"

	"github.com/edp1096/blocklac/pkg/system"
	"github.com/edp1096/blocklac/pkg/vector"
)

// Residual stores R = b - Ax and its l2 norm NORM.
type Residual struct {
	BaseAnalysis
	x, b string
}

func NewResidual(x, b string) *Residual {
	return &Residual{
		BaseAnalysis: *NewBaseAnalysis(),
		x:            x,
		b:            b,
	}
}

func (r *Residual) Setup(sys *system.System) error {
	if sys.Matrix() == nil {
		return system.ErrNoMatrix
	}
	r.System = sys
	return nil
}

func (r *Residual) Execute() error {
	x, err := r.System.ColVector(r.x)
	if err != nil {
		return fmt.Errorf("solution vector: %w", err)
	}
	b, err := r.System.RowVector(r.b)
	if err != nil {
		return fmt.Errorf("right hand side: %w", err)
	}

	dst := vector.NewBlockVector(b.Indices().Sizes()...)
	norm, err := r.System.Matrix().Residual(dst, x, b)
	if err != nil {
		return fmt.Errorf("residual: %w", err)
	}

	flat := vector.New(0)
	dst.CopyToVector(flat)
	r.StoreVector("R", flat.Raw())
	r.StoreScalar("NORM", norm)
	return nil
}
