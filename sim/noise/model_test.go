package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoiseless_DisablesEveryChannel(t *testing.T) {
	m := Noiseless(3)

	assert.Equal(t, 3, m.NumQubits())
	assert.False(t, m.HasT1())
	assert.False(t, m.HasT2())
	assert.False(t, m.HasMeasurement())
	assert.False(t, m.HasZZ())
}

func TestNew_Validation(t *testing.T) {
	// T1/T2 length mismatch
	_, err := New([]float64{1, 2}, []float64{1}, nil, nil)
	assert.Error(t, err)

	// Empty time lists
	_, err = New(nil, nil, nil, nil)
	assert.Error(t, err)

	// Measurement matrix count must match the qubit count
	_, err = New([]float64{1}, []float64{1}, make([]MeasMatrix, 2), nil)
	assert.Error(t, err)

	// Self-coupling is rejected
	_, err = New([]float64{1, 2}, []float64{1, 2}, nil, map[Pair]float64{{Q1: 1, Q2: 1}: 5})
	assert.Error(t, err)
}

func TestHasT1_MixedFiniteAndInfinite_IsEnabled(t *testing.T) {
	// GIVEN one finite T1 among infinite ones
	m, err := New([]float64{math.Inf(1), 50000}, []float64{math.Inf(1), math.Inf(1)}, nil, nil)
	require.NoError(t, err)

	// THEN the T1 channel counts as enabled, T2 stays disabled
	assert.True(t, m.HasT1())
	assert.False(t, m.HasT2())
}

func TestRates(t *testing.T) {
	m, err := New([]float64{50000}, []float64{40000}, nil, nil)
	require.NoError(t, err)

	assert.InDelta(t, 1.0/50000, m.RelaxationRate(0), 1e-15)
	assert.InDelta(t, 2.0/40000-1.0/50000, m.PureDephasingRate(0), 1e-15)

	// Infinite times yield zero rates.
	noiseless := Noiseless(1)
	assert.Equal(t, 0.0, noiseless.RelaxationRate(0))
	assert.Equal(t, 0.0, noiseless.PureDephasingRate(0))
}

func TestPureDephasingRate_T2BeyondLimit_IsNegativeNotFatal(t *testing.T) {
	// GIVEN T2 > 2*T1, which physics forbids
	m, err := New([]float64{100}, []float64{300}, nil, nil)
	require.NoError(t, err)

	// THEN the rate goes negative and the model still answers
	assert.Less(t, m.PureDephasingRate(0), 0.0)
}

func TestFlipProb(t *testing.T) {
	// Identity fallback when measurement error is disabled.
	m := Noiseless(1)
	assert.Equal(t, 1.0, m.FlipProb(0, 0, 0))
	assert.Equal(t, 0.0, m.FlipProb(0, 0, 1))

	// Column-stochastic matrix: [meas][prep] indexing.
	meas := []MeasMatrix{{{0.98, 0.03}, {0.02, 0.97}}}
	m2, err := New([]float64{math.Inf(1)}, []float64{math.Inf(1)}, meas, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.02, m2.FlipProb(0, 0, 1)) // P(meas=1 | prep=0)
	assert.Equal(t, 0.03, m2.FlipProb(0, 1, 0)) // P(meas=0 | prep=1)
	assert.Equal(t, 0.98, m2.FlipProb(0, 0, 0))
}

func TestZZ_OrderInsensitive(t *testing.T) {
	// GIVEN a coupling stored with its qubits reversed
	m, err := New([]float64{1, 2, 3}, []float64{1, 2, 3}, nil, map[Pair]float64{{Q1: 2, Q2: 0}: 120})
	require.NoError(t, err)

	// THEN both argument orders resolve it
	freq, ok := m.ZZ(0, 2)
	assert.True(t, ok)
	assert.Equal(t, 120.0, freq)
	freq, ok = m.ZZ(2, 0)
	assert.True(t, ok)
	assert.Equal(t, 120.0, freq)

	_, ok = m.ZZ(0, 1)
	assert.False(t, ok)

	assert.Equal(t, []Pair{{Q1: 0, Q2: 2}}, m.ZZPairs())
}

func TestString_NamesEnabledChannels(t *testing.T) {
	m, err := New([]float64{50000}, []float64{math.Inf(1)}, nil, nil)
	require.NoError(t, err)

	s := m.String()
	assert.Contains(t, s, "T1 times")
	assert.NotContains(t, s, "T2 times")
	assert.NotContains(t, s, "ZZ coupling")
}
