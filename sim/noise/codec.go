package noise

import "fmt"

// Flat-vector encoding for optimizers. Ordering:
//
//	[t1_0 .. t1_{n-1}, t2_0 .. t2_{n-1},
//	 (optional) meas diagonal pairs (P(0|0), P(1|1)) per qubit in qubit order,
//	 (optional) ZZ terms in lexicographic (q1, q2) order with q1 < q2]
//
// Optional block presence is inferred purely from vector length: 2n means
// T1/T2 only, 4n adds measurement, anything longer adds ZZ. A model carrying
// ZZ without measurement error encodes identity measurement diagonals so the
// vector still lands on a decodable length. The round trip is exact to
// floating-point precision.

// ToVector encodes the model as a flat parameter vector.
func (m *Model) ToVector() []float64 {
	n := m.NumQubits()
	vec := make([]float64, 0, 2*n)
	vec = append(vec, m.t1...)
	vec = append(vec, m.t2...)

	if m.HasMeasurement() {
		for q := 0; q < n; q++ {
			vec = append(vec, m.meas[q][0][0], m.meas[q][1][1])
		}
	} else if m.HasZZ() {
		// Length-based decoding cannot place a ZZ block without the
		// measurement block in front of it, so a ZZ-only model pads with
		// identity diagonals. The round trip restores ZZ exactly but
		// reports measurement as enabled (with perfect readout).
		for q := 0; q < n; q++ {
			vec = append(vec, 1, 1)
		}
	}
	if m.HasZZ() {
		// The ZZ block is dense: every q1 < q2 pair in lexicographic order,
		// zero for pairs without a coupling term. FromVector expects the
		// full block.
		for q1 := 0; q1 < n; q1++ {
			for q2 := q1 + 1; q2 < n; q2++ {
				freq, _ := m.ZZ(q1, q2)
				vec = append(vec, freq)
			}
		}
	}
	return vec
}

// FromVector decodes a flat parameter vector produced by ToVector (or
// perturbed by an optimizer) back into a Model.
func FromVector(vec []float64, nQubits int) (*Model, error) {
	if nQubits <= 0 {
		return nil, fmt.Errorf("need a positive qubit count, got %d", nQubits)
	}
	zzLen := nQubits * (nQubits - 1) / 2
	switch len(vec) {
	case 2 * nQubits, 4 * nQubits, 4*nQubits + zzLen:
	default:
		return nil, fmt.Errorf("vector length %d does not match %d qubits (want %d, %d, or %d)",
			len(vec), nQubits, 2*nQubits, 4*nQubits, 4*nQubits+zzLen)
	}

	t1 := vec[:nQubits]
	t2 := vec[nQubits : 2*nQubits]
	if len(vec) == 2*nQubits {
		return New(t1, t2, nil, nil)
	}

	meas := make([]MeasMatrix, nQubits)
	for q := 0; q < nQubits; q++ {
		d0 := vec[2*nQubits+2*q]
		d1 := vec[2*nQubits+2*q+1]
		meas[q] = MeasMatrix{
			{d0, 1 - d1},
			{1 - d0, d1},
		}
	}
	if len(vec) == 4*nQubits {
		return New(t1, t2, meas, nil)
	}

	zz := make(map[Pair]float64, zzLen)
	ind := 4 * nQubits
	for q1 := 0; q1 < nQubits; q1++ {
		for q2 := q1 + 1; q2 < nQubits; q2++ {
			zz[Pair{q1, q2}] = vec[ind]
			ind++
		}
	}
	return New(t1, t2, meas, zz)
}
