package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModel_Precedence(t *testing.T) {
	override, err := New([]float64{100, 200}, []float64{100, 200}, nil, nil)
	require.NoError(t, err)
	hardware := &HardwareProperties{
		Qubits: []QubitProperties{{T1: 50000, T2: 40000}, {T1: 60000, T2: 30000}},
	}

	// Disable beats everything.
	m, source, err := ResolveModel(override, hardware, true, 2)
	require.NoError(t, err)
	assert.Equal(t, SourceDisabled, source)
	assert.False(t, m.HasT1())

	// Override beats hardware.
	m, source, err = ResolveModel(override, hardware, false, 2)
	require.NoError(t, err)
	assert.Equal(t, SourceOverride, source)
	assert.Equal(t, 100.0, m.T1(0))

	// Hardware is the fallback.
	m, source, err = ResolveModel(nil, hardware, false, 2)
	require.NoError(t, err)
	assert.Equal(t, SourceHardware, source)
	assert.Equal(t, 50000.0, m.T1(0))
}

func TestResolveModel_NoSource_Errors(t *testing.T) {
	_, _, err := ResolveModel(nil, nil, false, 2)
	assert.Error(t, err)
}

func TestResolveModel_WidthMismatch_Errors(t *testing.T) {
	override, err := New([]float64{100}, []float64{100}, nil, nil)
	require.NoError(t, err)

	_, _, err = ResolveModel(override, nil, false, 2)
	assert.Error(t, err)
}
