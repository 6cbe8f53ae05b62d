package sim

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quac-sim/quac-sim/sim/noise"
)

// DefaultShots is the shot count used when a run does not specify one.
const DefaultShots = 1024

// BackendConfig holds the static configuration of a Backend.
type BackendConfig struct {
	Name         string // backend identity, used in result records
	NumQubits    int    // qubit register width (must be > 0)
	Workers      int    // worker pool size (0 = default)
	Mode         Mode   // default outcome mode (counts when empty)
	DefaultShots int    // default shots for counts mode (0 = DefaultShots)
	Seed         int64  // master seed for shot sampling
	DisableNoise bool   // force the noiseless model regardless of other inputs
}

// RunOptions are the per-run knobs. The zero value means "backend defaults".
type RunOptions struct {
	Shots            int
	Mode             Mode
	NoiseModel       *noise.Model // overrides hardware-derived and default models
	GateTimes        []float64    // explicit per-gate times (ns), bypassing the scheduler's times
	SimulationLength float64      // total run length (ns); 0 = derive from schedule
	TimeStep         float64      // integration step (ns); 0 = DefaultTimeStep
}

// Backend ties the pipeline together: it schedules circuits, resolves the
// effective noise model, drives a fresh engine instance per job, and formats
// outcomes. Safe for concurrent Run calls; each job owns its engine.
type Backend struct {
	conf          BackendConfig
	hardware      *noise.HardwareProperties
	defaultModel  *noise.Model
	pool          *WorkerPool
	providerInit  *ProviderInit
	engineFactory func(*ProviderInit) Engine
}

// NewBackend constructs a Backend. The engine implementation comes from
// NewEngineFunc, so callers must import an engine subpackage (normally
// sim/lindblad) for its registration side effect.
func NewBackend(conf BackendConfig, hardware *noise.HardwareProperties, defaultModel *noise.Model) (*Backend, error) {
	if conf.NumQubits <= 0 {
		return nil, stageErrorf(StageNoise, ErrConfiguration, "backend needs a positive qubit count, got %d", conf.NumQubits)
	}
	if NewEngineFunc == nil {
		return nil, stageErrorf(StageEngine, ErrConfiguration, "no engine implementation registered (import an engine subpackage)")
	}
	if hardware != nil && hardware.NumQubits() < conf.NumQubits {
		return nil, stageErrorf(StageNoise, ErrConfiguration,
			"hardware describes %d qubits, backend needs %d", hardware.NumQubits(), conf.NumQubits)
	}
	if conf.Name == "" {
		conf.Name = "quac"
	}
	if conf.Mode == "" {
		conf.Mode = ModeCounts
	}
	if conf.DefaultShots <= 0 {
		conf.DefaultShots = DefaultShots
	}
	return &Backend{
		conf:          conf,
		hardware:      hardware,
		defaultModel:  defaultModel,
		pool:          NewWorkerPool(conf.Workers),
		providerInit:  &ProviderInit{},
		engineFactory: NewEngineFunc,
	}, nil
}

// Name identifies the backend and its outcome mode.
func (b *Backend) Name() string {
	return b.conf.Name + "_" + string(b.conf.Mode) + "_simulator"
}

// NumQubits returns the backend register width.
func (b *Backend) NumQubits() int { return b.conf.NumQubits }

// DurationLookup returns the gate-duration source for the scheduler:
// hardware-specified durations when available, zero otherwise.
func (b *Backend) DurationLookup() DurationLookup {
	if b.hardware != nil {
		return b.hardware.Duration
	}
	return ZeroDurations
}

// Close shuts down the worker pool after in-flight jobs finish.
func (b *Backend) Close() { b.pool.Close() }

// Run creates and submits a job for the given circuit batch. The effective
// noise model is resolved once per run: explicit override, then
// hardware-derived, then the backend default, with DisableNoise trumping all.
func (b *Backend) Run(circuits []*Circuit, opts *RunOptions) (*Job, error) {
	resolved := b.resolveOptions(opts)

	for _, c := range circuits {
		if c.NumQubits > b.conf.NumQubits {
			return nil, stageErrorf(StageScheduling, ErrConfiguration,
				"circuit %q uses %d qubits, backend has %d", c.Name, c.NumQubits, b.conf.NumQubits)
		}
	}

	override := resolved.NoiseModel
	if override == nil {
		override = b.defaultModel
	}
	model, source, err := noise.ResolveModel(override, b.hardware, b.conf.DisableNoise, b.conf.NumQubits)
	if err != nil {
		return nil, stageErrorf(StageNoise, ErrConfiguration, "%v", err)
	}
	logrus.Debugf("noise model resolved from %s", source)

	id := uuid.NewString()
	job := newJob(id, b.pool, func() (*Result, error) {
		return b.execute(id, circuits, model, resolved)
	})
	if err := job.Submit(); err != nil {
		return nil, err
	}
	return job, nil
}

func (b *Backend) resolveOptions(opts *RunOptions) *RunOptions {
	resolved := RunOptions{}
	if opts != nil {
		resolved = *opts
	}
	if resolved.Mode == "" {
		resolved.Mode = b.conf.Mode
	}
	if resolved.Shots <= 0 {
		resolved.Shots = b.conf.DefaultShots
	}
	return &resolved
}

// execute is the job body: one fresh engine instance drives every circuit in
// the batch sequentially.
func (b *Backend) execute(jobID string, circuits []*Circuit, model *noise.Model, opts *RunOptions) (*Result, error) {
	jobStart := time.Now()
	engine := b.engineFactory(b.providerInit)

	result := &Result{BackendName: b.Name(), JobID: jobID}
	for _, c := range circuits {
		expStart := time.Now()

		scheduled := ListSchedule(c, b.DurationLookup())
		req, mappings, err := BuildEngineRequest(c, scheduled, model, opts)
		if err != nil {
			return nil, err
		}

		engineResult, err := engine.Run(context.Background(), req)
		if err != nil {
			return nil, stageErrorf(StageEngine, ErrEngine, "circuit %q: %v", c.Name, err)
		}

		table, err := FormatOutcome(&FormatRequest{
			Probabilities: engineResult.Probabilities,
			NumQubits:     c.NumQubits,
			MemorySlots:   c.MemorySlots,
			QubitMappings: mappings,
			Mode:          opts.Mode,
			Shots:         opts.Shots,
			Model:         model,
			Rand:          NewShotRNG(b.conf.Seed, c.Name),
		})
		if err != nil {
			return nil, stageErrorf(StageFormatting, err, "circuit %q", c.Name)
		}

		result.Results = append(result.Results, ExperimentResult{
			Name:      c.Name,
			Shots:     opts.Shots,
			Mode:      opts.Mode,
			Counts:    table,
			TimeTaken: time.Since(expStart),
		})
	}

	result.TimeTaken = time.Since(jobStart)
	return result, nil
}
