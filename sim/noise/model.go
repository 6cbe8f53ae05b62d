// Package noise defines the parametric noise model applied to simulations:
// per-qubit T1/T2 relaxation, per-qubit measurement-error matrices, and
// pairwise ZZ coupling. Models are immutable after construction and safe to
// share across concurrently running jobs.
package noise

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Pair identifies an unordered qubit pair in canonical Q1 < Q2 order.
type Pair struct {
	Q1, Q2 int
}

// MeasMatrix is a column-stochastic 2x2 matrix of measurement probabilities:
// entry [meas][prep] is P(measured=meas | prepared=prep), so each column
// (fixed prepared state) sums to 1 and the matrix left-multiplies a
// probability vector indexed by prepared state.
type MeasMatrix [2][2]float64

// Model holds the noise parameters for one simulation run.
//
// T1/T2 are in nanoseconds. An all-equal, all-infinite time list is the
// canonical "disabled" sentinel for that relaxation channel; nil measurement
// matrices / ZZ map disable those channels. ZZ frequencies are plain (not
// angular) frequencies in Hz.
type Model struct {
	t1   []float64
	t2   []float64
	meas []MeasMatrix // nil when measurement error is disabled
	zz   map[Pair]float64

	measOnce sync.Once
	fullMeas []*mat.Dense
}

// New constructs a Model. T1 and T2 must have equal, positive length; meas
// (when non-nil) must carry one matrix per qubit; zz keys are normalized to
// canonical order.
func New(t1, t2 []float64, meas []MeasMatrix, zz map[Pair]float64) (*Model, error) {
	if len(t1) == 0 || len(t1) != len(t2) {
		return nil, fmt.Errorf("T1 and T2 lists must have equal nonzero length, got %d and %d", len(t1), len(t2))
	}
	if meas != nil && len(meas) != len(t1) {
		return nil, fmt.Errorf("%d measurement matrices for %d qubits", len(meas), len(t1))
	}

	m := &Model{
		t1:   append([]float64(nil), t1...),
		t2:   append([]float64(nil), t2...),
		meas: append([]MeasMatrix(nil), meas...),
	}
	if meas == nil {
		m.meas = nil
	}
	if zz != nil {
		m.zz = make(map[Pair]float64, len(zz))
		for pair, freq := range zz {
			if pair.Q1 == pair.Q2 {
				return nil, fmt.Errorf("ZZ coupling of qubit %d with itself", pair.Q1)
			}
			if pair.Q1 > pair.Q2 {
				pair = Pair{pair.Q2, pair.Q1}
			}
			m.zz[pair] = freq
		}
	}
	return m, nil
}

// Noiseless returns the identity model: T1 = T2 = +Inf for all qubits, no
// measurement error, no ZZ coupling.
func Noiseless(nQubits int) *Model {
	t1 := make([]float64, nQubits)
	t2 := make([]float64, nQubits)
	for i := range t1 {
		t1[i] = math.Inf(1)
		t2[i] = math.Inf(1)
	}
	m, _ := New(t1, t2, nil, nil)
	return m
}

// NumQubits returns the number of qubits the model describes.
func (m *Model) NumQubits() int { return len(m.t1) }

// allEqualInf reports the canonical disabled sentinel: a single repeated
// infinite value.
func allEqualInf(times []float64) bool {
	for _, t := range times {
		if !math.IsInf(t, 1) || t != times[0] {
			return false
		}
	}
	return true
}

// HasT1 reports whether T1 relaxation is enabled.
func (m *Model) HasT1() bool { return !allEqualInf(m.t1) }

// HasT2 reports whether T2 dephasing is enabled.
func (m *Model) HasT2() bool { return !allEqualInf(m.t2) }

// HasMeasurement reports whether measurement error is enabled.
func (m *Model) HasMeasurement() bool { return m.meas != nil }

// HasZZ reports whether ZZ coupling is enabled.
func (m *Model) HasZZ() bool { return m.zz != nil }

// T1 returns the relaxation time (ns) of the given qubit.
func (m *Model) T1(qubit int) float64 { return m.t1[qubit] }

// T2 returns the dephasing time (ns) of the given qubit.
func (m *Model) T2(qubit int) float64 { return m.t2[qubit] }

// RelaxationRate returns the Lindblad emission rate 1/T1 (1/ns). Infinite T1
// yields zero.
func (m *Model) RelaxationRate(qubit int) float64 {
	return 1 / m.t1[qubit]
}

// PureDephasingRate returns the pure dephasing rate 2/T2 - 1/T1 (1/ns).
// Physics requires T2 <= 2*T1; values violating that drive the rate negative
// and are accepted with a warning, since the engine's behavior stays
// well-defined.
func (m *Model) PureDephasingRate(qubit int) float64 {
	rate := 2/m.t2[qubit] - 1/m.t1[qubit]
	if rate < 0 {
		logrus.Warnf("qubit %d has T2 > 2*T1 (T1=%g ns, T2=%g ns): negative pure dephasing rate %g",
			qubit, m.t1[qubit], m.t2[qubit], rate)
	}
	return rate
}

// FlipProb returns P(measured=meas | prepared=prep) for the given qubit.
// Returns the identity probabilities when measurement error is disabled.
func (m *Model) FlipProb(qubit, prep, meas int) float64 {
	if m.meas == nil {
		if prep == meas {
			return 1
		}
		return 0
	}
	return m.meas[qubit][meas][prep]
}

// ZZ returns the coupling frequency (Hz) for a qubit pair, in either
// argument order. The second return value is false when the pair has no
// coupling term.
func (m *Model) ZZ(qubit1, qubit2 int) (float64, bool) {
	if qubit1 > qubit2 {
		qubit1, qubit2 = qubit2, qubit1
	}
	freq, ok := m.zz[Pair{qubit1, qubit2}]
	return freq, ok
}

// ZZPairs returns the coupled pairs in lexicographic (Q1, Q2) order.
func (m *Model) ZZPairs() []Pair {
	pairs := make([]Pair, 0, len(m.zz))
	n := m.NumQubits()
	for q1 := 0; q1 < n; q1++ {
		for q2 := q1 + 1; q2 < n; q2++ {
			if _, ok := m.zz[Pair{q1, q2}]; ok {
				pairs = append(pairs, Pair{q1, q2})
			}
		}
	}
	return pairs
}

// String renders a human-readable description of the enabled noise channels.
func (m *Model) String() string {
	var sb strings.Builder
	sb.WriteString("Noise Model Description\n==============================")

	if m.HasT1() {
		sb.WriteString("\nT1 times:")
		for q, t := range m.t1 {
			fmt.Fprintf(&sb, "\n%d: %g ns", q, t)
		}
	}
	if m.HasT2() {
		sb.WriteString("\nT2 times:")
		for q, t := range m.t2 {
			fmt.Fprintf(&sb, "\n%d: %g ns", q, t)
		}
	}
	if m.HasMeasurement() {
		sb.WriteString("\nMeasurement error matrices:")
		for q, mm := range m.meas {
			fmt.Fprintf(&sb, "\n%d: %v", q, mm)
		}
	}
	if m.HasZZ() {
		sb.WriteString("\nZZ coupling terms:")
		for _, pair := range m.ZZPairs() {
			fmt.Fprintf(&sb, "\n(%d, %d): %g Hz", pair.Q1, pair.Q2, m.zz[pair])
		}
	}
	return sb.String()
}
