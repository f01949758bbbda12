package analysis

import (
	"math"

	"github.com/edp1096/blocklac/internal/consts"
	"github.com/edp1096/blocklac/pkg/system"
)

type Analysis interface {
	Setup(sys *system.System) error
	Execute() error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	System      *system.System
	results     map[string][]float64 // key: result name, value: vector or scalar
	convergence struct {
		maxIter int
		abstol  float64
		reltol  float64
		restol  float64
	}
}

func NewBaseAnalysis() *BaseAnalysis {
	ba := &BaseAnalysis{results: make(map[string][]float64)}

	ba.convergence.maxIter = consts.MAX_ITER
	ba.convergence.abstol = consts.ABSTOL
	ba.convergence.reltol = consts.RELTOL
	ba.convergence.restol = consts.RESTOL

	return ba
}

func (a *BaseAnalysis) Setup(sys *system.System) error {
	a.System = sys
	return nil
}

// CheckConvergence reports whether every entry moved by less than abstol or
// reltol relative to its new value.
func (a *BaseAnalysis) CheckConvergence(oldSol, newSol []float64) bool {
	if len(oldSol) != len(newSol) {
		return false
	}

	for i := range oldSol {
		diff := math.Abs(newSol[i] - oldSol[i])
		if diff > a.convergence.abstol &&
			diff > a.convergence.reltol*math.Abs(newSol[i]) {
			return false
		}
	}
	return true
}

func (a *BaseAnalysis) StoreVector(name string, values []float64) {
	a.results[name] = append([]float64(nil), values...)
}

func (a *BaseAnalysis) StoreScalar(name string, value float64) {
	a.results[name] = []float64{value}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
