// Package sim schedules quantum-circuit instructions onto a noisy-hardware
// timeline, drives an external Lindblad solver with the schedule, and formats
// the solver's outcome-probability vectors into classical-register tables.
//
// # Reading Guide
//
// Start with these three files to understand the pipeline:
//   - scheduler.go: the deterministic list scheduler (instructions → start times)
//   - adapter.go: schedule + noise model → engine request, with all validation
//   - backend.go: job construction, noise resolution, and the execute body
//
// # Architecture
//
// The sim package defines interfaces and bridge types; implementations live
// in sub-packages:
//   - sim/noise: noise model algebra (T1/T2 rates, measurement matrices, ZZ)
//   - sim/lindblad: reference engine implementation (statevector + relaxation)
//   - sim/stat: divergence metrics between outcome distributions
//   - sim/calib: noise-parameter calibration against reference distributions
//   - sim/trace: calibration evaluation trace recording
//
// Engine implementations register via init() functions that set the
// package-level factory variable NewEngineFunc.
//
// # Concurrency
//
// Jobs run on a bounded worker pool. Job.Status never blocks; Job.Result
// blocks until the worker finishes. Engine handles are never shared between
// jobs; noise models are immutable and freely shared.
package sim
