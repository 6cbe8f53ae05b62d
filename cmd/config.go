package cmd

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/quac-sim/quac-sim/sim"
	"github.com/quac-sim/quac-sim/sim/noise"
)

// instructionSpec is one instruction in a circuit YAML file.
type instructionSpec struct {
	Gate   string    `yaml:"gate"`
	Qubits []int     `yaml:"qubits"`
	Memory []int     `yaml:"memory,omitempty"`
	Params []float64 `yaml:"params,omitempty"`
}

// experimentSpec is one named circuit in a circuit YAML file.
type experimentSpec struct {
	Name         string            `yaml:"name"`
	Qubits       int               `yaml:"qubits"`
	MemorySlots  int               `yaml:"memory_slots"`
	Instructions []instructionSpec `yaml:"instructions"`
}

// circuitFile is the top-level structure of a circuit YAML file.
type circuitFile struct {
	Experiments []experimentSpec `yaml:"experiments"`
}

// LoadCircuits reads a circuit batch from a YAML file. Unnamed experiments
// get positional names; memory_slots defaults to the qubit count.
func LoadCircuits(path string) ([]*sim.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading circuits: %w", err)
	}
	var cf circuitFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing circuits: %w", err)
	}
	if len(cf.Experiments) == 0 {
		return nil, fmt.Errorf("circuit file %s holds no experiments", path)
	}

	circuits := make([]*sim.Circuit, 0, len(cf.Experiments))
	for i, exp := range cf.Experiments {
		if exp.Qubits <= 0 {
			return nil, fmt.Errorf("experiment %d needs a positive qubit count", i)
		}
		if exp.Name == "" {
			exp.Name = fmt.Sprintf("experiment-%d", i)
		}
		if exp.MemorySlots <= 0 {
			exp.MemorySlots = exp.Qubits
		}

		c := &sim.Circuit{
			Name:        exp.Name,
			NumQubits:   exp.Qubits,
			MemorySlots: exp.MemorySlots,
		}
		for j, in := range exp.Instructions {
			if in.Gate == "" {
				return nil, fmt.Errorf("experiment %q instruction %d has no gate name", exp.Name, j)
			}
			for _, q := range in.Qubits {
				if q < 0 || q >= exp.Qubits {
					return nil, fmt.Errorf("experiment %q instruction %d targets qubit %d outside [0, %d)",
						exp.Name, j, q, exp.Qubits)
				}
			}
			for _, m := range in.Memory {
				if m < 0 || m >= exp.MemorySlots {
					return nil, fmt.Errorf("experiment %q instruction %d targets classical bit %d outside [0, %d)",
						exp.Name, j, m, exp.MemorySlots)
				}
			}
			c.Instructions = append(c.Instructions, sim.Instruction{
				Name:   in.Gate,
				Qubits: in.Qubits,
				Memory: in.Memory,
				Params: in.Params,
			})
		}
		circuits = append(circuits, c)
	}
	return circuits, nil
}

// measurementSpec is one qubit's readout error in a noise YAML file.
type measurementSpec struct {
	Qubit          int     `yaml:"qubit"`
	ProbMeas1Prep0 float64 `yaml:"prob_meas1_prep0"`
	ProbMeas0Prep1 float64 `yaml:"prob_meas0_prep1"`
}

// couplingSpec is one pairwise ZZ term in a noise YAML file.
type couplingSpec struct {
	Qubits    []int   `yaml:"qubits"`
	Frequency float64 `yaml:"frequency"` // Hz
}

// noiseFile is the top-level structure of a noise-model YAML file.
type noiseFile struct {
	T1          []float64         `yaml:"t1"` // ns; zero or negative means infinite
	T2          []float64         `yaml:"t2"` // ns; zero or negative means infinite
	Measurement []measurementSpec `yaml:"measurement,omitempty"`
	ZZ          []couplingSpec    `yaml:"zz,omitempty"`
}

// LoadNoiseModel reads a user-defined noise model from a YAML file.
func LoadNoiseModel(path string) (*noise.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading noise model: %w", err)
	}
	var nf noiseFile
	if err := yaml.Unmarshal(data, &nf); err != nil {
		return nil, fmt.Errorf("parsing noise model: %w", err)
	}

	nQubits := len(nf.T1)
	t1 := make([]float64, nQubits)
	t2 := make([]float64, nQubits)
	for q := 0; q < nQubits; q++ {
		t1[q] = nf.T1[q]
		if t1[q] <= 0 {
			t1[q] = math.Inf(1)
		}
		if q < len(nf.T2) {
			t2[q] = nf.T2[q]
		}
		if t2[q] <= 0 {
			t2[q] = math.Inf(1)
		}
	}

	var meas []noise.MeasMatrix
	if len(nf.Measurement) > 0 {
		meas = make([]noise.MeasMatrix, nQubits)
		for q := range meas {
			meas[q] = noise.MeasMatrix{{1, 0}, {0, 1}}
		}
		for _, ms := range nf.Measurement {
			if ms.Qubit < 0 || ms.Qubit >= nQubits {
				return nil, fmt.Errorf("measurement error for qubit %d outside [0, %d)", ms.Qubit, nQubits)
			}
			meas[ms.Qubit] = noise.MeasMatrix{
				{1 - ms.ProbMeas1Prep0, ms.ProbMeas0Prep1},
				{ms.ProbMeas1Prep0, 1 - ms.ProbMeas0Prep1},
			}
		}
	}

	var zz map[noise.Pair]float64
	if len(nf.ZZ) > 0 {
		zz = make(map[noise.Pair]float64, len(nf.ZZ))
		for _, cs := range nf.ZZ {
			if len(cs.Qubits) != 2 {
				return nil, fmt.Errorf("ZZ coupling needs exactly 2 qubits, got %v", cs.Qubits)
			}
			zz[noise.Pair{Q1: cs.Qubits[0], Q2: cs.Qubits[1]}] = cs.Frequency
		}
	}

	return noise.New(t1, t2, meas, zz)
}

// SaveNoiseModel writes a noise model to a YAML file in the same format
// LoadNoiseModel reads, so a calibrated model can seed later runs.
func SaveNoiseModel(path string, model *noise.Model) error {
	nf := noiseFile{}
	for q := 0; q < model.NumQubits(); q++ {
		t1 := model.T1(q)
		if math.IsInf(t1, 1) {
			t1 = 0
		}
		t2 := model.T2(q)
		if math.IsInf(t2, 1) {
			t2 = 0
		}
		nf.T1 = append(nf.T1, t1)
		nf.T2 = append(nf.T2, t2)

		if model.HasMeasurement() {
			nf.Measurement = append(nf.Measurement, measurementSpec{
				Qubit:          q,
				ProbMeas1Prep0: model.FlipProb(q, 0, 1),
				ProbMeas0Prep1: model.FlipProb(q, 1, 0),
			})
		}
	}
	for _, pair := range model.ZZPairs() {
		freq, _ := model.ZZ(pair.Q1, pair.Q2)
		nf.ZZ = append(nf.ZZ, couplingSpec{Qubits: []int{pair.Q1, pair.Q2}, Frequency: freq})
	}

	data, err := yaml.Marshal(&nf)
	if err != nil {
		return fmt.Errorf("encoding noise model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing noise model: %w", err)
	}
	return nil
}

// referenceFile is the top-level structure of a reference-counts YAML file:
// per-experiment outcome tables keyed by register bitstring.
type referenceFile struct {
	Reference map[string]map[string]float64 `yaml:"reference"`
}

// LoadReference reads reference outcome distributions for calibration.
func LoadReference(path string) (map[string]sim.OutcomeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference counts: %w", err)
	}
	var rf referenceFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing reference counts: %w", err)
	}
	if len(rf.Reference) == 0 {
		return nil, fmt.Errorf("reference file %s holds no distributions", path)
	}

	out := make(map[string]sim.OutcomeTable, len(rf.Reference))
	for name, table := range rf.Reference {
		out[name] = sim.OutcomeTable(table)
	}
	return out, nil
}
