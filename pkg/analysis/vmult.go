package analysis

import (
	"fmt"

	"github.com/edp1096/blocklac/pkg/system"
	"github.com/edp1096/blocklac/pkg/vector"
)

// Product applies the matrix, or its transpose, to a named vector and stores
// the result as Y.
type Product struct {
	BaseAnalysis
	src        string
	transposed bool
}

func NewVMult(src string, transposed bool) *Product {
	return &Product{
		BaseAnalysis: *NewBaseAnalysis(),
		src:          src,
		transposed:   transposed,
	}
}

func (p *Product) Setup(sys *system.System) error {
	if sys.Matrix() == nil {
		return system.ErrNoMatrix
	}
	p.System = sys
	return nil
}

func (p *Product) Execute() error {
	m := p.System.Matrix()

	var src *vector.BlockVector
	var err error
	if p.transposed {
		src, err = p.System.RowVector(p.src)
	} else {
		src, err = p.System.ColVector(p.src)
	}
	if err != nil {
		return fmt.Errorf("source vector: %w", err)
	}

	var dst *vector.BlockVector
	if p.transposed {
		dst = vector.NewBlockVector(m.ColIndices().Sizes()...)
		err = m.TVMult(dst, src)
	} else {
		dst = vector.NewBlockVector(m.RowIndices().Sizes()...)
		err = m.VMult(dst, src)
	}
	if err != nil {
		return fmt.Errorf("matrix vector product: %w", err)
	}

	y := vector.New(0)
	dst.CopyToVector(y)
	p.StoreVector("Y", y.Raw())
	return nil
}
