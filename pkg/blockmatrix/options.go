package blockmatrix

import (
	"math"

	"github.com/edp1096/blocklac/internal/consts"
)

const panicDropToleranceInvalid = "blockmatrix: WithDropTolerance: tolerance must be finite, non-negative"

// Option configures a BlockSparseMatrix at construction.
type Option func(*Options)

// Options holds the resolved configuration.
type Options struct {
	sortedColumns bool
	dropTolerance float64
}

func defaultOptions() Options {
	return Options{
		sortedColumns: false,
		dropTolerance: consts.DROP_TOLERANCE,
	}
}

// WithSortedColumns routes every batched write through RouteSorted, so column
// lists may come in any order at the cost of a sort per call.
func WithSortedColumns() Option {
	return func(o *Options) { o.sortedColumns = true }
}

// WithDropTolerance sets the magnitude at or below which ReinitFromDense
// skips entries. Negative or non-finite values panic.
func WithDropTolerance(tol float64) Option {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicDropToleranceInvalid)
	}
	return func(o *Options) { o.dropTolerance = tol }
}

func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o Options) SortedColumns() bool    { return o.sortedColumns }
func (o Options) DropTolerance() float64 { return o.dropTolerance }
