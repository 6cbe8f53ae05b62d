package sim

// Gate names accepted from the host circuit representation. The set mirrors
// the transpiler basis the external engine understands plus the two
// pseudo-instructions (measure, barrier) that never reach the engine.
const (
	GateMeasure = "measure"
	GateBarrier = "barrier"
	GateCX      = "cx"
	GateCZ      = "cz"
	GateID      = "id"
	GateU1      = "u1"
	GateU2      = "u2"
	GateU3      = "u3"
	GateRX      = "rx"
	GateRY      = "ry"
	GateRZ      = "rz"
)

// Instruction is a single operation parsed from the source circuit.
// Immutable once constructed: the scheduler and adapter only read it.
type Instruction struct {
	Name   string    // gate-kind tag (see Gate* constants)
	Qubits []int     // target qubits, ordered
	Memory []int     // classical-bit targets (measure only)
	Params []float64 // continuous gate parameters, passed through verbatim
}

// IsMeasure reports whether the instruction is a measurement.
func (in Instruction) IsMeasure() bool {
	return in.Name == GateMeasure
}

// IsBarrier reports whether the instruction is a scheduling barrier.
func (in Instruction) IsBarrier() bool {
	return in.Name == GateBarrier
}

// IsPseudo reports whether the instruction is a zero-duration construct that
// is never forwarded to the physics engine.
func (in Instruction) IsPseudo() bool {
	return in.IsMeasure() || in.IsBarrier()
}

// Circuit is one experiment to simulate: a named instruction list over a
// fixed qubit and classical register width.
type Circuit struct {
	Name         string
	NumQubits    int
	MemorySlots  int // classical register width
	Instructions []Instruction
}

// CountMeasurements returns the number of measure instructions in the circuit.
func (c *Circuit) CountMeasurements() int {
	n := 0
	for _, in := range c.Instructions {
		if in.IsMeasure() {
			n++
		}
	}
	return n
}
