package sim

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/quac-sim/quac-sim/sim/noise"
)

// DefaultTimeStep is the engine integration step (ns) used when the caller
// does not supply one.
const DefaultTimeStep = 10.0

// gateTranslation maps host gate names to the engine's fixed vocabulary.
// Parametrized rotations keep their name and pass parameters through.
var gateTranslation = map[string]string{
	GateCX: "cnot",
	GateCZ: "cz",
	GateID: "i",
	GateU1: "u1",
	GateU2: "u2",
	GateU3: "u3",
	GateRX: "rx",
	GateRY: "ry",
	GateRZ: "rz",
}

// BuildEngineRequest translates a scheduled instruction list plus noise model
// into the engine's structured request, and returns the qubit to
// classical-bit mapping recorded from measure instructions.
//
// Validation happens here, before any engine call: a circuit that measures
// nothing is rejected with ErrNoMeasurement, and explicit timing data that
// cannot cover the circuit is rejected with ErrScheduling.
func BuildEngineRequest(c *Circuit, scheduled []ScheduledInstruction, model *noise.Model,
	opts *RunOptions) (*EngineRequest, map[int][]int, error) {

	if c.CountMeasurements() == 0 {
		return nil, nil, stageErrorf(StageScheduling, ErrNoMeasurement, "circuit %q", c.Name)
	}

	req := &EngineRequest{NumQubits: c.NumQubits}
	qubitMappings := make(map[int][]int)
	measured := make(map[int]bool)

	explicitTimes := opts != nil && len(opts.GateTimes) > 0

	gateIndex := 0
	lastTime := 0.0
	for _, si := range scheduled {
		in := si.Instruction
		// With explicit gate times the scheduler's clock is advisory only;
		// the simulated window must cover the injected times instead.
		if !explicitTimes && si.StartTime > lastTime {
			lastTime = si.StartTime
		}

		if in.IsMeasure() {
			// Record the register destination; the engine never sees measures.
			for _, q := range in.Qubits {
				measured[q] = true
				qubitMappings[q] = append(qubitMappings[q], in.Memory...)
			}
			continue
		}
		if in.IsBarrier() {
			continue
		}

		// Mid-circuit measurement is not supported: the measurement is
		// deferred to simulation end, so later gates on a measured qubit
		// still execute. Physically questionable but well-defined.
		for _, q := range in.Qubits {
			if measured[q] {
				logrus.Warnf("gate %s acts on qubit %d after its measurement; "+
					"measurement is deferred to simulation end", in.Name, q)
			}
		}

		time := si.StartTime
		if explicitTimes {
			if gateIndex >= len(opts.GateTimes) {
				return nil, nil, stageErrorf(StageScheduling, ErrScheduling,
					"%d explicit gate times for %d engine gates", len(opts.GateTimes), gateIndex+1)
			}
			time = opts.GateTimes[gateIndex]
			if time > lastTime {
				lastTime = time
			}
		}

		name := gateTranslation[in.Name]
		if name == "" {
			name = in.Name
		}
		req.Gates = append(req.Gates, GateCall{
			Name:   name,
			Qubits: append([]int(nil), in.Qubits...),
			Time:   time,
			Params: append([]float64(nil), in.Params...),
		})
		gateIndex++
	}

	if explicitTimes && gateIndex < len(opts.GateTimes) {
		return nil, nil, stageErrorf(StageScheduling, ErrScheduling,
			"%d explicit gate times for %d engine gates", len(opts.GateTimes), gateIndex)
	}

	// Per-qubit Lindblad generator rates. Infinite T1/T2 yield zero rates.
	req.EmissionRates = make([]float64, c.NumQubits)
	req.DephasingRates = make([]float64, c.NumQubits)
	for q := 0; q < c.NumQubits; q++ {
		req.EmissionRates[q] = model.RelaxationRate(q)
		req.DephasingRates[q] = model.PureDephasingRate(q)
	}

	// ZZ coupling enters the engine Hamiltonian in angular frequency.
	if model.HasZZ() {
		for _, pair := range model.ZZPairs() {
			freq, _ := model.ZZ(pair.Q1, pair.Q2)
			req.Couplings = append(req.Couplings, CouplingTerm{
				Qubit1:           pair.Q1,
				Qubit2:           pair.Q2,
				AngularFrequency: 2 * math.Pi * freq,
			})
		}
	}

	// Total simulated duration: explicit length when given (must cover the
	// latest gate time), otherwise that latest time plus a one-step buffer.
	req.SimulationLength = lastTime + 1
	if opts != nil && opts.SimulationLength > 0 {
		if opts.SimulationLength < lastTime {
			return nil, nil, stageErrorf(StageScheduling, ErrScheduling,
				"simulation length %g ns ends before last scheduled gate at %g ns",
				opts.SimulationLength, lastTime)
		}
		req.SimulationLength = math.Max(opts.SimulationLength, lastTime)
	}

	req.TimeStep = DefaultTimeStep
	if opts != nil && opts.TimeStep > 0 {
		req.TimeStep = opts.TimeStep
	}
	// The engine must always advance by at least one step.
	if req.TimeStep > req.SimulationLength {
		req.TimeStep = req.SimulationLength
	}

	return req, qubitMappings, nil
}
