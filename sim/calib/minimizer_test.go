package calib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNelderMead_FindsQuadraticMinimum(t *testing.T) {
	// GIVEN a smooth bowl with its minimum at (3, -1)
	objective := func(x []float64) float64 {
		return (x[0]-3)*(x[0]-3) + (x[1]+1)*(x[1]+1)
	}

	// WHEN minimized from the origin
	nm := &NelderMead{MaxEvaluations: 500}
	best, err := nm.Minimize(objective, []float64{0, 0})
	require.NoError(t, err)

	// THEN the simplex converges to the minimum
	assert.InDelta(t, 3, best[0], 1e-3)
	assert.InDelta(t, -1, best[1], 1e-3)
}

func TestNelderMead_BudgetBoundsEvaluations(t *testing.T) {
	evaluations := 0
	objective := func(x []float64) float64 {
		evaluations++
		return x[0] * x[0]
	}

	nm := &NelderMead{MaxEvaluations: 20}
	_, err := nm.Minimize(objective, []float64{10})
	require.NoError(t, err)
	assert.LessOrEqual(t, evaluations, 25) // budget plus simplex setup slack
}
