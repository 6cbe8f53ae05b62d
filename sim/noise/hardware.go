package noise

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// QubitProperties are the empirically measured characteristics of one
// hardware qubit. Zero T1/T2 mean "not measured" and resolve to no noise on
// that channel.
type QubitProperties struct {
	T1 float64 `yaml:"t1"` // ns
	T2 float64 `yaml:"t2"` // ns

	// Readout error probabilities; both zero means perfect readout.
	ProbMeas1Prep0 float64 `yaml:"prob_meas1_prep0"`
	ProbMeas0Prep1 float64 `yaml:"prob_meas0_prep1"`
}

// GateProperties records the calibrated duration of a gate on a specific
// qubit tuple.
type GateProperties struct {
	Gate     string  `yaml:"gate"`
	Qubits   []int   `yaml:"qubits"`
	Duration float64 `yaml:"duration"` // ns
}

// HardwareProperties describe a hardware target: per-qubit coherence and
// readout characteristics plus per-gate durations.
type HardwareProperties struct {
	Qubits []QubitProperties `yaml:"qubits"`
	Gates  []GateProperties  `yaml:"gates"`
}

// LoadHardwareProperties reads hardware properties from a YAML file.
func LoadHardwareProperties(path string) (*HardwareProperties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hardware properties: %w", err)
	}
	var hp HardwareProperties
	if err := yaml.Unmarshal(data, &hp); err != nil {
		return nil, fmt.Errorf("parsing hardware properties: %w", err)
	}
	if len(hp.Qubits) == 0 {
		return nil, fmt.Errorf("hardware properties describe no qubits")
	}
	return &hp, nil
}

// NumQubits returns the number of qubits the hardware describes.
func (hp *HardwareProperties) NumQubits() int { return len(hp.Qubits) }

// Duration resolves the calibrated duration (ns) of a gate on a qubit tuple.
// Satisfies the scheduler's DurationLookup contract.
func (hp *HardwareProperties) Duration(gate string, qubits []int) (float64, bool) {
	for i := range hp.Gates {
		g := &hp.Gates[i]
		if g.Gate != gate || len(g.Qubits) != len(qubits) {
			continue
		}
		match := true
		for j := range qubits {
			if g.Qubits[j] != qubits[j] {
				match = false
				break
			}
		}
		if match {
			return g.Duration, true
		}
	}
	return 0, false
}

// FromHardwareProperties builds a noise model from empirical hardware
// characteristics: measured T1/T2 become relaxation channels, readout error
// probabilities become measurement matrices. ZZ coupling is not available
// from hardware properties and stays disabled.
func FromHardwareProperties(hp *HardwareProperties, nQubits int) (*Model, error) {
	if hp.NumQubits() < nQubits {
		return nil, fmt.Errorf("hardware describes %d qubits, need %d", hp.NumQubits(), nQubits)
	}

	t1 := make([]float64, nQubits)
	t2 := make([]float64, nQubits)
	anyReadoutError := false
	for q := 0; q < nQubits; q++ {
		t1[q] = hp.Qubits[q].T1
		if t1[q] <= 0 {
			t1[q] = math.Inf(1)
		}
		t2[q] = hp.Qubits[q].T2
		if t2[q] <= 0 {
			t2[q] = math.Inf(1)
		}
		if hp.Qubits[q].ProbMeas1Prep0 != 0 || hp.Qubits[q].ProbMeas0Prep1 != 0 {
			anyReadoutError = true
		}
	}

	var meas []MeasMatrix
	if anyReadoutError {
		meas = make([]MeasMatrix, nQubits)
		for q := 0; q < nQubits; q++ {
			p10 := hp.Qubits[q].ProbMeas1Prep0
			p01 := hp.Qubits[q].ProbMeas0Prep1
			meas[q] = MeasMatrix{
				{1 - p10, p01},
				{p10, 1 - p01},
			}
		}
	}

	return New(t1, t2, meas, nil)
}
