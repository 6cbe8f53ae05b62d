package sim

import (
	"context"
	"sync"
)

// GateCall is one gate in the external engine's vocabulary, placed on the
// simulation timeline.
type GateCall struct {
	Name   string    // engine gate name (post-translation, e.g. "cnot")
	Qubits []int     // one or two target qubits
	Time   float64   // start time (ns)
	Params []float64 // rotation angles etc., passed through verbatim
}

// CouplingTerm is a pairwise always-on ZZ interaction injected into the
// engine Hamiltonian. AngularFrequency is already converted from plain
// frequency (multiplied by 2π); the engine must not convert again.
type CouplingTerm struct {
	Qubit1, Qubit2   int
	AngularFrequency float64 // rad/s
}

// EngineRequest is the full structured request handed to the physics engine:
// a scheduled gate list plus Lindblad generator rates and run length.
type EngineRequest struct {
	NumQubits        int
	Gates            []GateCall
	EmissionRates    []float64 // per qubit, 1/T1 (1/ns); 0 disables
	DephasingRates   []float64 // per qubit, 2/T2 - 1/T1 (1/ns); 0 disables
	Couplings        []CouplingTerm
	SimulationLength float64 // ns
	TimeStep         float64 // ns
}

// EngineResult is the engine's answer: a normalized probability vector over
// all 2^n computational basis states. Qubit 0 occupies the most significant
// bit of the state index.
type EngineResult struct {
	Probabilities []float64
}

// Engine is the boundary to the external physics solver. Implementations are
// NOT required to be safe for concurrent Run calls on one value; every job
// constructs and owns a fresh Engine instance.
type Engine interface {
	Run(ctx context.Context, req *EngineRequest) (*EngineResult, error)
}

// ProviderInit is a process-scoped latch for engine-provider setup that must
// happen exactly once (native solver initialization). It is passed explicitly
// to whichever component constructs the first engine handle instead of living
// as a hidden static flag.
type ProviderInit struct {
	once sync.Once
}

// Do runs f the first time Do is called on this latch; later calls are no-ops.
// Safe for concurrent use.
func (p *ProviderInit) Do(f func()) {
	p.once.Do(f)
}

// NewEngineFunc is the registration point for engine implementations.
// Implementation subpackages set it from init(), which breaks the import
// cycle between sim (interface owner) and the implementation. The default
// implementation lives in sim/lindblad.
var NewEngineFunc func(init *ProviderInit) Engine
