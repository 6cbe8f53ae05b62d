package calib

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/quac-sim/quac-sim/sim"
	"github.com/quac-sim/quac-sim/sim/noise"
	"github.com/quac-sim/quac-sim/sim/stat"
	"github.com/quac-sim/quac-sim/sim/trace"
)

// Objective selects the divergence minimized during calibration.
type Objective string

const (
	ObjectiveAngle Objective = "angle"
	ObjectiveKL    Objective = "kl"
	ObjectiveKS    Objective = "ks"
)

// Defaults for Config zero values.
const (
	DefaultEpsilon    = 1e-5
	DefaultKSSamples  = 8000
	DefaultParamScale = 1e5
	DefaultBudget     = 200
)

// Config tunes a calibration run. The zero value is usable.
type Config struct {
	Objective  Objective               // divergence to minimize (default KL)
	Epsilon    float64                 // KL smoothing mass (default 1e-5)
	KSSamples  int                     // sample count for the KS cutoff (default 8000)
	ParamScale float64                 // optimizer-space scaling of T1/T2 ns values (default 1e5)
	Minimizer  Minimizer               // default NelderMead with DefaultBudget evaluations
	Trace      *trace.CalibrationTrace // optional evaluation trace
}

func (cfg *Config) withDefaults() *Config {
	out := Config{}
	if cfg != nil {
		out = *cfg
	}
	if out.Objective == "" {
		out.Objective = ObjectiveKL
	}
	if out.Epsilon <= 0 {
		out.Epsilon = DefaultEpsilon
	}
	if out.KSSamples <= 0 {
		out.KSSamples = DefaultKSSamples
	}
	if out.ParamScale <= 0 {
		out.ParamScale = DefaultParamScale
	}
	if out.Minimizer == nil {
		out.Minimizer = &NelderMead{MaxEvaluations: DefaultBudget}
	}
	return &out
}

// Calibrate refines the initial noise model until the summed divergence
// between the simulated and reference distributions of the calibration
// circuits is minimized.
//
// Each objective evaluation decodes the optimizer's vector back into a noise
// model, runs every circuit through the backend (one job per circuit, so
// independent circuits evaluate in parallel on the worker pool), and sums
// the per-circuit divergence against the reference tables keyed by circuit
// name. The scalar loss is returned to the optimizer serially.
func Calibrate(initial *noise.Model, circuits []*sim.Circuit, backend *sim.Backend,
	reference map[string]sim.OutcomeTable, cfg *Config) (*noise.Model, error) {

	if initial == nil {
		return nil, fmt.Errorf("calibration needs an initial noise model")
	}
	if len(circuits) == 0 {
		return nil, fmt.Errorf("calibration needs at least one circuit")
	}
	for _, c := range circuits {
		if _, ok := reference[c.Name]; !ok {
			return nil, fmt.Errorf("no reference distribution for circuit %q", c.Name)
		}
	}

	for _, v := range initial.ToVector() {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("initial noise model must be a finite guess; " +
				"a noiseless model cannot seed the optimizer")
		}
	}

	conf := cfg.withDefaults()
	nQubits := initial.NumQubits()
	evaluation := 0

	objective := func(x []float64) float64 {
		evaluation++
		vec := decodeParams(x, conf.ParamScale)
		floorTimes(vec, nQubits)

		model, err := noise.FromVector(vec, nQubits)
		if err != nil {
			logrus.Warnf("calibration evaluation %d: bad parameter vector: %v", evaluation, err)
			return math.Inf(1)
		}

		loss, err := batchLoss(model, circuits, backend, reference, conf)
		if err != nil {
			logrus.Warnf("calibration evaluation %d: %v", evaluation, err)
			return math.Inf(1)
		}

		if conf.Trace != nil {
			conf.Trace.RecordEvaluation(trace.EvaluationRecord{
				Evaluation: evaluation,
				Params:     vec,
				Loss:       loss,
			})
		}
		logrus.Debugf("calibration evaluation %d: loss %g", evaluation, loss)
		return loss
	}

	x0 := encodeParams(initial.ToVector(), conf.ParamScale)
	best, err := conf.Minimizer.Minimize(objective, x0)
	if err != nil {
		return nil, fmt.Errorf("calibration optimizer: %w", err)
	}

	bestVec := decodeParams(best, conf.ParamScale)
	floorTimes(bestVec, nQubits)
	refined, err := noise.FromVector(bestVec, nQubits)
	if err != nil {
		return nil, fmt.Errorf("decoding refined parameters: %w", err)
	}
	return refined, nil
}

// batchLoss runs the circuit batch with the candidate model and sums the
// per-circuit divergence from the reference distributions.
func batchLoss(model *noise.Model, circuits []*sim.Circuit, backend *sim.Backend,
	reference map[string]sim.OutcomeTable, conf *Config) (float64, error) {

	// One job per circuit: independent evaluations ride the worker pool.
	jobs := make([]*sim.Job, len(circuits))
	for i, c := range circuits {
		job, err := backend.Run([]*sim.Circuit{c}, &sim.RunOptions{
			Mode:       sim.ModeDensity,
			NoiseModel: model,
		})
		if err != nil {
			return 0, err
		}
		jobs[i] = job
	}

	total := 0.0
	for i, job := range jobs {
		result, err := job.Result()
		if err != nil {
			return 0, err
		}

		c := circuits[i]
		table, err := result.Counts(c.Name)
		if err != nil {
			return 0, err
		}
		div, err := divergence(reference[c.Name], table, c.MemorySlots, conf)
		if err != nil {
			return 0, err
		}
		total += div
	}
	return total, nil
}

// divergence scores a simulated outcome table against its reference.
func divergence(refTable, simTable sim.OutcomeTable, width int, conf *Config) (float64, error) {
	refDist, err := stat.TableToDist(refTable, width)
	if err != nil {
		return 0, fmt.Errorf("reference table: %w", err)
	}
	simDist, err := stat.TableToDist(simTable, width)
	if err != nil {
		return 0, fmt.Errorf("simulated table: %w", err)
	}

	switch conf.Objective {
	case ObjectiveAngle:
		return stat.VectorAngle(refDist, simDist), nil
	case ObjectiveKL:
		return stat.KLSmoothed(refDist, simDist, conf.Epsilon), nil
	case ObjectiveKS:
		d, _ := stat.KSOneSample(refDist, simDist, conf.KSSamples)
		return d, nil
	default:
		return 0, fmt.Errorf("unknown objective %q", conf.Objective)
	}
}

// encodeParams maps noise parameters into optimizer space.
func encodeParams(vec []float64, scale float64) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v / scale
	}
	return out
}

// decodeParams maps optimizer space back to noise parameters, projecting
// onto the [0, +inf) box so the optimizer may roam freely.
func decodeParams(x []float64, scale float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Max(v, 0) * scale
	}
	return out
}

// minDecodedTime is the floor (ns) for decoded T1/T2 values. The projection
// in decodeParams can land exactly on zero, for which the generator rates
// 1/T1 and 2/T2 - 1/T1 are undefined.
const minDecodedTime = 1e-3

// floorTimes lifts the T1/T2 block of a decoded vector off zero so every
// candidate model yields finite Lindblad rates.
func floorTimes(vec []float64, nQubits int) {
	for i := 0; i < 2*nQubits && i < len(vec); i++ {
		if vec[i] < minDecodedTime {
			vec[i] = minDecodedTime
		}
	}
}
