package sim

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// ScheduleStartTime is the wall-clock time (ns) assigned to the first gate on
// every qubit. Starting at 1 rather than 0 keeps the engine from having to
// apply a gate at the very first integration step.
const ScheduleStartTime = 1.0

// NominalGateDuration is the fallback gate length (ns) used when no hardware
// properties are available but a nonzero duration is still wanted.
const NominalGateDuration = 100.0

// DurationLookup resolves the duration (ns) of a gate on a specific qubit
// tuple. The second return value is false when the hardware does not specify
// a duration for that (gate, qubits) pair.
type DurationLookup func(gate string, qubits []int) (float64, bool)

// ZeroDurations is a DurationLookup that reports every gate as instantaneous.
// Used when no hardware spec exists and gate times are injected explicitly.
func ZeroDurations(string, []int) (float64, bool) { return 0, false }

// ScheduledInstruction pairs an instruction with its assigned start time.
// Index preserves the original program position so callers can recover which
// measurement maps to which classical bit after sorting.
type ScheduledInstruction struct {
	Instruction Instruction
	Index       int
	StartTime   float64 // ns
	Duration    float64 // ns
}

// ListSchedule assigns a start time to every instruction using a greedy list
// scheduler: each instruction starts as soon as all of its qubits are free,
// and advances those qubits by its duration. Measurements and barriers
// consume zero time. The result is ordered by start time ascending, ties
// broken by program order.
//
// Qubit indices outside [0, c.NumQubits) are a caller bug and will panic.
func ListSchedule(c *Circuit, lookup DurationLookup) []ScheduledInstruction {
	if lookup == nil {
		lookup = ZeroDurations
	}

	// Per-qubit next-free-time counters.
	free := make([]float64, c.NumQubits)
	for i := range free {
		free[i] = ScheduleStartTime
	}

	scheduled := make([]ScheduledInstruction, 0, len(c.Instructions))
	for index, in := range c.Instructions {
		start := ScheduleStartTime
		for _, q := range in.Qubits {
			if free[q] > start {
				start = free[q]
			}
		}

		duration := 0.0
		if !in.IsPseudo() {
			if d, ok := lookup(in.Name, in.Qubits); ok {
				duration = d
			}
		}

		// Multi-qubit gates occupy all referenced qubits identically.
		for _, q := range in.Qubits {
			free[q] = start + duration
		}

		logrus.Debugf("scheduled %s on %v at %g ns (duration %g ns)", in.Name, in.Qubits, start, duration)
		scheduled = append(scheduled, ScheduledInstruction{
			Instruction: in,
			Index:       index,
			StartTime:   start,
			Duration:    duration,
		})
	}

	sort.SliceStable(scheduled, func(i, j int) bool {
		return scheduled[i].StartTime < scheduled[j].StartTime
	})
	return scheduled
}
