package noise

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hardwareYAML = `
qubits:
  - t1: 50000
    t2: 40000
    prob_meas1_prep0: 0.02
    prob_meas0_prep1: 0.03
  - t1: 0
    t2: 30000
gates:
  - gate: cx
    qubits: [0, 1]
    duration: 300
  - gate: u2
    qubits: [0]
    duration: 50
`

func writeHardwareFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hardware.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHardwareProperties(t *testing.T) {
	hp, err := LoadHardwareProperties(writeHardwareFile(t, hardwareYAML))
	require.NoError(t, err)

	assert.Equal(t, 2, hp.NumQubits())
	assert.Equal(t, 50000.0, hp.Qubits[0].T1)
	assert.Equal(t, 0.02, hp.Qubits[0].ProbMeas1Prep0)
}

func TestLoadHardwareProperties_NoQubits_Errors(t *testing.T) {
	_, err := LoadHardwareProperties(writeHardwareFile(t, "gates: []\n"))
	assert.Error(t, err)

	_, err = LoadHardwareProperties(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDuration_MatchesGateAndQubits(t *testing.T) {
	hp, err := LoadHardwareProperties(writeHardwareFile(t, hardwareYAML))
	require.NoError(t, err)

	d, ok := hp.Duration("cx", []int{0, 1})
	assert.True(t, ok)
	assert.Equal(t, 300.0, d)

	// Qubit order matters for directed gates.
	_, ok = hp.Duration("cx", []int{1, 0})
	assert.False(t, ok)

	_, ok = hp.Duration("u2", []int{1})
	assert.False(t, ok)
}

func TestFromHardwareProperties(t *testing.T) {
	hp, err := LoadHardwareProperties(writeHardwareFile(t, hardwareYAML))
	require.NoError(t, err)

	m, err := FromHardwareProperties(hp, 2)
	require.NoError(t, err)

	// Unmeasured T1 resolves to infinity.
	assert.Equal(t, 50000.0, m.T1(0))
	assert.True(t, math.IsInf(m.T1(1), 1))

	// Readout errors become column-stochastic matrices.
	require.True(t, m.HasMeasurement())
	assert.InDelta(t, 0.02, m.FlipProb(0, 0, 1), 1e-15)
	assert.InDelta(t, 0.03, m.FlipProb(0, 1, 0), 1e-15)
	assert.Equal(t, 1.0, m.FlipProb(1, 1, 1))

	// ZZ never comes from hardware properties.
	assert.False(t, m.HasZZ())
}

func TestFromHardwareProperties_TooFewQubits(t *testing.T) {
	hp := &HardwareProperties{Qubits: []QubitProperties{{T1: 1000, T2: 1000}}}
	_, err := FromHardwareProperties(hp, 2)
	assert.Error(t, err)
}
