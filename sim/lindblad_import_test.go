package sim_test

// Blank import triggers sim/lindblad's init(), which registers NewEngineFunc.
// This allows end-to-end tests through the real reference engine without
// package sim importing sim/lindblad (which would create an import cycle).
import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/quac-sim/quac-sim/sim"
	_ "github.com/quac-sim/quac-sim/sim/lindblad"
	"github.com/quac-sim/quac-sim/sim/noise"
)

func TestBackend_EndToEnd_BellCircuit(t *testing.T) {
	// GIVEN a backend over the registered reference engine
	backend, err := sim.NewBackend(sim.BackendConfig{NumQubits: 2, Seed: 42}, nil, nil)
	require.NoError(t, err)
	defer backend.Close()

	circuit := &sim.Circuit{
		Name:        "bell",
		NumQubits:   2,
		MemorySlots: 2,
		Instructions: []sim.Instruction{
			{Name: "h", Qubits: []int{0}},
			{Name: sim.GateCX, Qubits: []int{0, 1}},
			{Name: sim.GateMeasure, Qubits: []int{0}, Memory: []int{0}},
			{Name: sim.GateMeasure, Qubits: []int{1}, Memory: []int{1}},
		},
	}

	// WHEN the bell circuit runs noiselessly with 10000 shots
	job, err := backend.Run([]*sim.Circuit{circuit}, &sim.RunOptions{
		Shots:      10000,
		NoiseModel: noise.Noiseless(2),
	})
	require.NoError(t, err)
	result, err := job.Result()
	require.NoError(t, err)

	// THEN only the correlated outcomes appear, roughly balanced
	table, err := result.Counts("bell")
	require.NoError(t, err)
	assert.Zero(t, table["01"])
	assert.Zero(t, table["10"])
	assert.Equal(t, 10000.0, table["00"]+table["11"])
	assert.InDelta(t, table["00"], table["11"], 1000)
}

func TestBackend_EndToEnd_RelaxationBiasesTowardGround(t *testing.T) {
	// GIVEN a model with a T1 comparable to the run length
	model, err := noise.New([]float64{100}, []float64{200}, nil, nil)
	require.NoError(t, err)

	backend, err := sim.NewBackend(sim.BackendConfig{NumQubits: 1, Seed: 1}, nil, nil)
	require.NoError(t, err)
	defer backend.Close()

	circuit := &sim.Circuit{
		Name:        "excite",
		NumQubits:   1,
		MemorySlots: 1,
		Instructions: []sim.Instruction{
			{Name: "x", Qubits: []int{0}},
			{Name: sim.GateMeasure, Qubits: []int{0}, Memory: []int{0}},
		},
	}

	// WHEN the excited qubit evolves for 100 ns
	job, err := backend.Run([]*sim.Circuit{circuit}, &sim.RunOptions{
		Mode:             sim.ModeDensity,
		NoiseModel:       model,
		SimulationLength: 100,
	})
	require.NoError(t, err)
	result, err := job.Result()
	require.NoError(t, err)

	// THEN roughly 1/e of the population survives in |1>
	table, err := result.Counts("excite")
	require.NoError(t, err)
	assert.InDelta(t, 0.3679, table["1"], 1e-3)
	assert.InDelta(t, 0.6321, table["0"], 1e-3)
}
