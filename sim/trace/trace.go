// Package trace records calibration objective evaluations so a fitting run
// can be inspected after the fact: which parameter vectors the optimizer
// tried and what loss each produced.
package trace

// Level controls the verbosity of evaluation tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelEvaluations captures every objective evaluation.
	LevelEvaluations Level = "evaluations"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:        true,
	LevelEvaluations: true,
	"":               true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Config controls trace collection behavior.
type Config struct {
	Level Level
}

// EvaluationRecord is one objective-function evaluation.
type EvaluationRecord struct {
	Evaluation int       // 1-based evaluation counter
	Params     []float64 // flat noise-model vector as evaluated
	Loss       float64   // summed divergence over the circuit batch
}

// CalibrationTrace collects evaluation records during a calibration run.
type CalibrationTrace struct {
	Config      Config
	Evaluations []EvaluationRecord
}

// NewCalibrationTrace creates a CalibrationTrace ready for recording.
func NewCalibrationTrace(config Config) *CalibrationTrace {
	return &CalibrationTrace{
		Config:      config,
		Evaluations: make([]EvaluationRecord, 0),
	}
}

// RecordEvaluation appends an evaluation record when tracing is enabled.
func (ct *CalibrationTrace) RecordEvaluation(record EvaluationRecord) {
	if ct.Config.Level != LevelEvaluations {
		return
	}
	ct.Evaluations = append(ct.Evaluations, record)
}
