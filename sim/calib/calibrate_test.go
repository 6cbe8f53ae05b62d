package calib

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/quac-sim/quac-sim/sim"
	"github.com/quac-sim/quac-sim/sim/noise"
	"github.com/quac-sim/quac-sim/sim/trace"
)

// decayEngine answers with the analytic T1 decay of one excited qubit, so a
// calibration against it has a well-defined optimum.
type decayEngine struct{}

func (decayEngine) Run(_ context.Context, req *sim.EngineRequest) (*sim.EngineResult, error) {
	p1 := math.Exp(-req.EmissionRates[0] * req.SimulationLength)
	return &sim.EngineResult{Probabilities: []float64{1 - p1, p1}}, nil
}

func decayBackend(t *testing.T) *sim.Backend {
	t.Helper()
	previous := sim.NewEngineFunc
	sim.NewEngineFunc = func(*sim.ProviderInit) sim.Engine { return decayEngine{} }
	t.Cleanup(func() { sim.NewEngineFunc = previous })

	backend, err := sim.NewBackend(sim.BackendConfig{NumQubits: 1, Workers: 4}, nil, nil)
	require.NoError(t, err)
	t.Cleanup(backend.Close)
	return backend
}

func excitedCircuit() *sim.Circuit {
	return &sim.Circuit{
		Name:        "excite",
		NumQubits:   1,
		MemorySlots: 1,
		Instructions: []sim.Instruction{
			{Name: "x", Qubits: []int{0}},
			{Name: sim.GateMeasure, Qubits: []int{0}, Memory: []int{0}},
		},
	}
}

// decayReference builds the table the decay engine produces for a given T1,
// under the default schedule of excitedCircuit (simulation length 2 ns).
func decayReference(t1 float64) sim.OutcomeTable {
	p1 := math.Exp(-2 / t1)
	return sim.OutcomeTable{"0": 1 - p1, "1": p1}
}

func TestCalibrate_ReducesLoss(t *testing.T) {
	// GIVEN a reference produced at T1 = 100 ns and a guess of T1 = 20 ns
	backend := decayBackend(t)
	initial, err := noise.New([]float64{20}, []float64{40}, nil, nil)
	require.NoError(t, err)

	calTrace := trace.NewCalibrationTrace(trace.Config{Level: trace.LevelEvaluations})

	// WHEN the model is calibrated against the reference
	refined, err := Calibrate(initial, []*sim.Circuit{excitedCircuit()}, backend,
		map[string]sim.OutcomeTable{"excite": decayReference(100)},
		&Config{
			ParamScale: 100, // keep the simplex at O(1) coordinates
			Minimizer:  &NelderMead{MaxEvaluations: 300},
			Trace:      calTrace,
		})
	require.NoError(t, err)
	require.NotNil(t, refined)

	// THEN the best loss improves on the starting point
	summary := trace.Summarize(calTrace)
	require.Greater(t, summary.TotalEvaluations, 1)
	assert.Less(t, summary.BestLoss, calTrace.Evaluations[0].Loss)

	// AND the refined T1 moved toward the truth
	assert.Less(t, math.Abs(refined.T1(0)-100), math.Abs(20.0-100))
}

func TestCalibrate_Validation(t *testing.T) {
	backend := decayBackend(t)
	initial, err := noise.New([]float64{20}, []float64{40}, nil, nil)
	require.NoError(t, err)
	reference := map[string]sim.OutcomeTable{"excite": decayReference(100)}

	// Nil initial model.
	_, err = Calibrate(nil, []*sim.Circuit{excitedCircuit()}, backend, reference, nil)
	assert.Error(t, err)

	// Empty circuit batch.
	_, err = Calibrate(initial, nil, backend, reference, nil)
	assert.Error(t, err)

	// Missing reference for a circuit.
	_, err = Calibrate(initial, []*sim.Circuit{excitedCircuit()}, backend,
		map[string]sim.OutcomeTable{"other": decayReference(100)}, nil)
	assert.Error(t, err)

	// A noiseless (infinite) model cannot seed the simplex.
	_, err = Calibrate(noise.Noiseless(1), []*sim.Circuit{excitedCircuit()}, backend, reference, nil)
	assert.Error(t, err)
}

func TestFloorTimes_KeepsRatesFinite(t *testing.T) {
	// GIVEN a decoded vector whose T1/T2 block collapsed onto the boundary
	vec := decodeParams([]float64{-0.5, 0, 0.001, 0.9}, 1e5)
	require.Equal(t, 0.0, vec[0])
	require.Equal(t, 0.0, vec[1])

	// WHEN the times are floored
	floorTimes(vec, 2)

	// THEN every T1/T2 entry sits at or above the floor and the resulting
	// model has finite generator rates
	for i := 0; i < 4; i++ {
		assert.GreaterOrEqual(t, vec[i], minDecodedTime, "index %d", i)
	}
	model, err := noise.FromVector(vec, 2)
	require.NoError(t, err)
	for q := 0; q < 2; q++ {
		assert.False(t, math.IsNaN(model.RelaxationRate(q)))
		assert.False(t, math.IsInf(model.RelaxationRate(q), 0))
		assert.False(t, math.IsNaN(model.PureDephasingRate(q)))
		assert.False(t, math.IsInf(model.PureDephasingRate(q), 0))
	}
}

func TestDivergence_ObjectiveSelection(t *testing.T) {
	ref := sim.OutcomeTable{"0": 0.5, "1": 0.5}
	simulated := sim.OutcomeTable{"0": 0.6, "1": 0.4}

	for _, objective := range []Objective{ObjectiveAngle, ObjectiveKL, ObjectiveKS} {
		conf := (&Config{Objective: objective}).withDefaults()
		div, err := divergence(ref, simulated, 1, conf)
		require.NoError(t, err, string(objective))
		assert.Greater(t, div, 0.0, string(objective))

		// Identical tables score (near) zero under every objective.
		div, err = divergence(ref, ref, 1, conf)
		require.NoError(t, err, string(objective))
		assert.InDelta(t, 0, div, 1e-9, string(objective))
	}

	_, err := divergence(ref, simulated, 1, &Config{Objective: "manhattan"})
	assert.Error(t, err)
}

func TestParamCodec(t *testing.T) {
	// Encoding divides by the scale, decoding multiplies back.
	encoded := encodeParams([]float64{50000, 40000}, 1e5)
	assert.Equal(t, []float64{0.5, 0.4}, encoded)

	decoded := decodeParams(encoded, 1e5)
	assert.Equal(t, []float64{50000, 40000}, decoded)

	// Decoding projects negative optimizer proposals onto the boundary.
	assert.Equal(t, []float64{0, 100}, decodeParams([]float64{-0.3, 0.001}, 1e5))
}
