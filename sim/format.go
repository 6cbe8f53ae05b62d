package sim

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/quac-sim/quac-sim/sim/noise"
)

// FormatRequest bundles everything needed to turn a raw engine probability
// vector into a classical-register outcome table.
type FormatRequest struct {
	Probabilities []float64     // 2^NumQubits entries, qubit 0 = most significant bit
	NumQubits     int
	MemorySlots   int           // classical register width
	QubitMappings map[int][]int // qubit -> classical bit positions
	Mode          Mode
	Shots         int           // counts mode only
	Model         *noise.Model  // measurement-error correction source
	Rand          *rand.Rand    // counts mode sampler source
}

// FormatOutcome converts a raw outcome-probability vector into a
// register-mapped outcome table.
//
// Counts mode draws Shots independent samples with chooseIndex and tallies
// register bitstrings; register states that were never drawn are absent from
// the table. Density mode first applies the noise model's per-qubit
// measurement-error operators (in qubit order), then accumulates exact
// probabilities; zero-probability states are retained because aggregation
// workflows rely on complete-state vectors.
//
// Both modes share mapStateToRegister, so the register bit order of counts
// and density output for the same circuit can never diverge.
func FormatOutcome(req *FormatRequest) (OutcomeTable, error) {
	if want := 1 << req.NumQubits; len(req.Probabilities) != want {
		return nil, fmt.Errorf("probability vector has %d entries, want %d", len(req.Probabilities), want)
	}

	switch req.Mode {
	case ModeCounts:
		return formatCounts(req)
	case ModeDensity:
		return formatDensity(req)
	default:
		return nil, fmt.Errorf("unknown outcome mode %q", req.Mode)
	}
}

func formatCounts(req *FormatRequest) (OutcomeTable, error) {
	if req.Shots <= 0 {
		return nil, fmt.Errorf("counts mode needs a positive shot count, got %d", req.Shots)
	}
	if req.Rand == nil {
		return nil, fmt.Errorf("counts mode needs a sampler source")
	}

	probs := req.Probabilities
	if req.Model != nil && req.Model.HasMeasurement() {
		probs = applyMeasurementError(probs, req.Model)
	}

	table := make(OutcomeTable)
	for shot := 0; shot < req.Shots; shot++ {
		state := chooseIndex(probs, req.Rand.Float64())
		table[mapStateToRegister(state, req.NumQubits, req.MemorySlots, req.QubitMappings)]++
	}
	return table, nil
}

func formatDensity(req *FormatRequest) (OutcomeTable, error) {
	probs := req.Probabilities
	if req.Model != nil && req.Model.HasMeasurement() {
		probs = applyMeasurementError(probs, req.Model)
	}

	table := make(OutcomeTable)
	for state, p := range probs {
		table[mapStateToRegister(state, req.NumQubits, req.MemorySlots, req.QubitMappings)] += p
	}
	return table, nil
}

// applyMeasurementError left-multiplies the probability vector by each
// qubit's expanded measurement-error operator, in qubit order.
func applyMeasurementError(probs []float64, model *noise.Model) []float64 {
	vec := mat.NewVecDense(len(probs), append([]float64(nil), probs...))
	for _, op := range model.MeasurementOperators() {
		next := mat.NewVecDense(len(probs), nil)
		next.MulVec(op, vec)
		vec = next
	}
	return vec.RawVector().Data
}

// chooseIndex picks index i with probability probs[i] using inverse-transform
// sampling: the first index whose running cumulative probability exceeds the
// uniform draw wins. If rounding error leaves the draw unmatched, index 0 is
// returned rather than erroring.
func chooseIndex(probs []float64, draw float64) int {
	lower, upper := 0.0, 0.0
	for i, p := range probs {
		upper += p
		if lower <= draw && draw < upper {
			return i
		}
		lower += p
	}
	return 0
}

// mapStateToRegister converts a simulated basis-state index into the
// classical-register bitstring key. Qubit 0 is the most significant bit of
// the state index. A qubit may feed zero, one, or several classical bits;
// unmeasured classical bits stay '0'. The register is reversed before
// encoding so the least significant classical bit is listed last.
func mapStateToRegister(state, numQubits, memorySlots int, mappings map[int][]int) string {
	register := make([]byte, memorySlots)
	for i := range register {
		register[i] = '0'
	}

	for qubit := 0; qubit < numQubits; qubit++ {
		outcome := byte('0' + (state>>(numQubits-1-qubit))&1)
		for _, slot := range mappings[qubit] {
			register[slot] = outcome
		}
	}

	for i, j := 0, len(register)-1; i < j; i, j = i+1, j-1 {
		register[i], register[j] = register[j], register[i]
	}
	return string(register)
}
