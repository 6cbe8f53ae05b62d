// Package lindblad is the reference physics engine: a pure-Go statevector
// propagator with first-order amplitude damping applied to the final
// populations. It exists so the simulator runs end-to-end without a native
// solver; a production deployment swaps it out through sim.NewEngineFunc.
//
// Fidelity notes. Gates evolve the statevector exactly. Qubit relaxation is
// applied as a classical population transfer over the full run length, so a
// qubit excited early and one excited late decay identically. Pure dephasing
// and ZZ coupling only rotate phases and therefore cannot change basis-state
// populations in this engine; they are accepted and logged, not simulated.
package lindblad

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/quac-sim/quac-sim/sim"
)

// Engine propagates one request at a time. Each job constructs its own
// instance, so no locking is needed.
type Engine struct{}

// New constructs the reference engine. The provider latch runs once per
// process; the reference engine has no native state to set up, so it only
// announces itself.
func New(init *sim.ProviderInit) sim.Engine {
	init.Do(func() {
		logrus.Debug("lindblad reference engine initialized")
	})
	return &Engine{}
}

// Run executes the request and returns the basis-state probability vector.
// Qubit 0 occupies the most significant bit of the state index.
func (e *Engine) Run(ctx context.Context, req *sim.EngineRequest) (*sim.EngineResult, error) {
	if req.NumQubits < 1 {
		return nil, fmt.Errorf("%w: request has %d qubits", sim.ErrEngine, req.NumQubits)
	}
	if req.TimeStep <= 0 {
		return nil, fmt.Errorf("%w: non-positive time step %g", sim.ErrEngine, req.TimeStep)
	}

	gates := make([]sim.GateCall, len(req.Gates))
	copy(gates, req.Gates)
	sort.SliceStable(gates, func(i, j int) bool { return gates[i].Time < gates[j].Time })

	state := newStatevector(req.NumQubits)
	for _, g := range gates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", sim.ErrEngine, err)
		}
		if err := state.apply(g); err != nil {
			return nil, err
		}
	}

	probs := state.probabilities()
	applyRelaxation(probs, req.EmissionRates, req.SimulationLength, req.NumQubits)

	for q, rate := range req.DephasingRates {
		if rate > 0 {
			logrus.Debugf("dephasing rate %g on qubit %d leaves populations unchanged", rate, q)
		}
	}
	if len(req.Couplings) > 0 {
		logrus.Debugf("%d ZZ coupling terms leave populations unchanged", len(req.Couplings))
	}

	return &sim.EngineResult{Probabilities: probs}, nil
}

// applyRelaxation moves excited-state population to the ground-state partner
// with survival probability exp(-rate * length), one qubit at a time.
func applyRelaxation(probs []float64, rates []float64, length float64, numQubits int) {
	for q := 0; q < numQubits && q < len(rates); q++ {
		rate := rates[q]
		if rate <= 0 {
			continue
		}
		survive := math.Exp(-rate * length)
		bit := 1 << (numQubits - 1 - q)
		for i := range probs {
			if i&bit != 0 {
				moved := probs[i] * (1 - survive)
				probs[i] -= moved
				probs[i^bit] += moved
			}
		}
	}
}

// statevector holds 2^n complex amplitudes, initialized to |0...0>.
type statevector struct {
	amps      []complex128
	numQubits int
}

func newStatevector(numQubits int) *statevector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &statevector{amps: amps, numQubits: numQubits}
}

// mask returns the index bit of qubit q under the qubit-0-is-MSB convention.
func (s *statevector) mask(q int) int {
	return 1 << (s.numQubits - 1 - q)
}

func (s *statevector) checkQubits(g sim.GateCall, want int) error {
	if len(g.Qubits) != want {
		return fmt.Errorf("%w: gate %q wants %d qubits, got %d",
			sim.ErrEngine, g.Name, want, len(g.Qubits))
	}
	for _, q := range g.Qubits {
		if q < 0 || q >= s.numQubits {
			return fmt.Errorf("%w: gate %q targets qubit %d outside [0, %d)",
				sim.ErrEngine, g.Name, q, s.numQubits)
		}
	}
	return nil
}

func (s *statevector) apply(g sim.GateCall) error {
	switch g.Name {
	case "i":
		return s.checkQubits(g, 1)
	case "cnot":
		if err := s.checkQubits(g, 2); err != nil {
			return err
		}
		s.applyCNOT(g.Qubits[0], g.Qubits[1])
		return nil
	case "cz":
		if err := s.checkQubits(g, 2); err != nil {
			return err
		}
		s.applyCZ(g.Qubits[0], g.Qubits[1])
		return nil
	case "swap":
		if err := s.checkQubits(g, 2); err != nil {
			return err
		}
		s.applySwap(g.Qubits[0], g.Qubits[1])
		return nil
	default:
		if err := s.checkQubits(g, 1); err != nil {
			return err
		}
		m, err := singleQubitMatrix(g.Name, g.Params)
		if err != nil {
			return err
		}
		s.applySingle(g.Qubits[0], m)
		return nil
	}
}

// applySingle multiplies the 2x2 matrix into every amplitude pair split on
// the target qubit's bit.
func (s *statevector) applySingle(q int, m [2][2]complex128) {
	bit := s.mask(q)
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := s.amps[i], s.amps[j]
			s.amps[i] = m[0][0]*a0 + m[0][1]*a1
			s.amps[j] = m[1][0]*a0 + m[1][1]*a1
		}
	}
}

func (s *statevector) applyCNOT(control, target int) {
	cBit, tBit := s.mask(control), s.mask(target)
	for i := range s.amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *statevector) applyCZ(control, target int) {
	cBit, tBit := s.mask(control), s.mask(target)
	for i := range s.amps {
		if i&cBit != 0 && i&tBit != 0 {
			s.amps[i] = -s.amps[i]
		}
	}
}

func (s *statevector) applySwap(q1, q2 int) {
	bit1, bit2 := s.mask(q1), s.mask(q2)
	for i := range s.amps {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *statevector) probabilities() []float64 {
	probs := make([]float64, len(s.amps))
	for i, a := range s.amps {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// singleQubitMatrix builds the unitary for a named single-qubit gate. The
// u3(theta, phi, lambda) parametrization covers every rotation; h, x, y, z
// and the phase gates are fixed matrices.
func singleQubitMatrix(name string, params []float64) ([2][2]complex128, error) {
	var zero [2][2]complex128
	invSqrt2 := complex(1/math.Sqrt2, 0)

	switch name {
	case "h":
		return [2][2]complex128{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}, nil
	case "x":
		return [2][2]complex128{{0, 1}, {1, 0}}, nil
	case "y":
		return [2][2]complex128{{0, -1i}, {1i, 0}}, nil
	case "z":
		return [2][2]complex128{{1, 0}, {0, -1}}, nil
	case "s":
		return [2][2]complex128{{1, 0}, {0, 1i}}, nil
	case "t":
		return [2][2]complex128{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}, nil
	case "u1":
		p, err := needParams(name, params, 1)
		if err != nil {
			return zero, err
		}
		return [2][2]complex128{{1, 0}, {0, cmplx.Exp(complex(0, p[0]))}}, nil
	case "u2":
		p, err := needParams(name, params, 2)
		if err != nil {
			return zero, err
		}
		return u3Matrix(math.Pi/2, p[0], p[1]), nil
	case "u3":
		p, err := needParams(name, params, 3)
		if err != nil {
			return zero, err
		}
		return u3Matrix(p[0], p[1], p[2]), nil
	case "rx":
		p, err := needParams(name, params, 1)
		if err != nil {
			return zero, err
		}
		c := complex(math.Cos(p[0]/2), 0)
		js := complex(0, -math.Sin(p[0]/2))
		return [2][2]complex128{{c, js}, {js, c}}, nil
	case "ry":
		p, err := needParams(name, params, 1)
		if err != nil {
			return zero, err
		}
		c := complex(math.Cos(p[0]/2), 0)
		sn := complex(math.Sin(p[0]/2), 0)
		return [2][2]complex128{{c, -sn}, {sn, c}}, nil
	case "rz":
		p, err := needParams(name, params, 1)
		if err != nil {
			return zero, err
		}
		phase := cmplx.Exp(complex(0, p[0]/2))
		return [2][2]complex128{{cmplx.Conj(phase), 0}, {0, phase}}, nil
	default:
		return zero, fmt.Errorf("%w: unknown gate %q", sim.ErrEngine, name)
	}
}

func u3Matrix(theta, phi, lambda float64) [2][2]complex128 {
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	return [2][2]complex128{
		{c, -cmplx.Exp(complex(0, lambda)) * sn},
		{cmplx.Exp(complex(0, phi)) * sn, cmplx.Exp(complex(0, phi+lambda)) * c},
	}
}

func needParams(name string, params []float64, want int) ([]float64, error) {
	if len(params) < want {
		return nil, fmt.Errorf("%w: gate %q wants %d parameters, got %d",
			sim.ErrEngine, name, want, len(params))
	}
	return params, nil
}
