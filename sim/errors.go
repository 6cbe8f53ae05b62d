package sim

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Callers classify failures with
// errors.Is against these values.
var (
	// ErrConfiguration: bad or missing backend options, e.g. no hardware
	// spec and no noise model supplied.
	ErrConfiguration = errors.New("configuration error")

	// ErrScheduling: insufficient or excessive explicit timing data.
	ErrScheduling = errors.New("scheduling error")

	// ErrNoMeasurement: the circuit never measures any qubit, so no outcome
	// table can be produced. Fatal.
	ErrNoMeasurement = errors.New("circuit measures no qubits")

	// ErrEngine: opaque failure surfaced from the physics engine.
	ErrEngine = errors.New("engine error")

	// ErrJobState: resubmission of an already-submitted job.
	ErrJobState = errors.New("job state error")
)

// Pipeline stages reported by StageError.
const (
	StageScheduling = "scheduling"
	StageNoise      = "noise-model"
	StageEngine     = "engine"
	StageFormatting = "formatting"
	StageJob        = "job"
)

// StageError tags an error with the pipeline stage that produced it, so any
// fatal failure identifies where it came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// stageErrorf builds a StageError wrapping one of the sentinel errors above.
func stageErrorf(stage string, sentinel error, format string, args ...any) error {
	return &StageError{
		Stage: stage,
		Err:   fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}
