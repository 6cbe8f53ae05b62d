// Package calib fits noise-model parameters by minimizing a statistical
// divergence between simulated and reference outcome distributions. The
// physics engine is opaque, so the objective has no gradient: only
// derivative-free optimizers are admissible here.
package calib

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

// Minimizer is the narrow optimizer interface the calibration loop depends
// on, so optimizer libraries can be swapped without touching its control
// flow. Implementations must be derivative-free. Box constraints [0, +inf)
// on every parameter are enforced by the caller through projection, so a
// Minimizer may propose negative coordinates freely.
type Minimizer interface {
	Minimize(objective func([]float64) float64, x0 []float64) ([]float64, error)
}

// NelderMead minimizes with the gonum downhill-simplex method.
type NelderMead struct {
	MaxEvaluations int // objective evaluation budget (0 = gonum default)
}

// Minimize runs Nelder-Mead from x0 until convergence or the evaluation
// budget is exhausted, returning the best vector found.
func (nm *NelderMead) Minimize(objective func([]float64) float64, x0 []float64) ([]float64, error) {
	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{}
	if nm.MaxEvaluations > 0 {
		settings.FuncEvaluations = nm.MaxEvaluations
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("nelder-mead: %w", err)
	}
	return result.X, nil
}
