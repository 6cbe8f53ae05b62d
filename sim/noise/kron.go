package noise

import "gonum.org/v1/gonum/mat"

// MeasurementOperators returns one 2^n x 2^n measurement-error operator per
// qubit: the qubit's own 2x2 matrix at its tensor position, the 2x2 identity
// everywhere else. Applying all operators in qubit order as successive
// left-multiplications of the bitstring probability vector yields the
// noise-adjusted vector. This per-qubit convention is the only one
// supported; a single combined operator is NOT an equivalent contract for
// callers that apply operators selectively.
//
// Composition costs O(n * 4^n), so the result is computed once per Model and
// cached. Returns identity operators when measurement error is disabled.
func (m *Model) MeasurementOperators() []*mat.Dense {
	m.measOnce.Do(func() {
		n := m.NumQubits()
		dim := 1 << n

		if m.meas == nil {
			m.fullMeas = make([]*mat.Dense, n)
			for q := 0; q < n; q++ {
				m.fullMeas[q] = identity(dim)
			}
			return
		}

		eye2 := identity(2)
		for qubit := 0; qubit < n; qubit++ {
			expanded := mat.NewDense(1, 1, []float64{1})
			for pos := 0; pos < n; pos++ {
				factor := eye2
				if pos == qubit {
					factor = mat.NewDense(2, 2, []float64{
						m.meas[qubit][0][0], m.meas[qubit][0][1],
						m.meas[qubit][1][0], m.meas[qubit][1][1],
					})
				}
				var next mat.Dense
				next.Kronecker(expanded, factor)
				expanded = &next
			}
			m.fullMeas = append(m.fullMeas, expanded)
		}
	})
	return m.fullMeas
}

func identity(dim int) *mat.Dense {
	d := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		d.Set(i, i, 1)
	}
	return d
}
