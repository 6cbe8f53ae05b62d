package sim

import (
	"fmt"
	"time"
)

// Mode selects how outcomes are reported.
type Mode string

const (
	// ModeCounts draws independent shot samples from the final probability
	// vector and tallies frequencies. Subject to sampling noise.
	ModeCounts Mode = "counts"
	// ModeDensity reports exact outcome probabilities from the density
	// diagonal. Recommended for comparisons and calibration.
	ModeDensity Mode = "density"
)

// OutcomeTable maps classical-register bitstrings to an integer count
// (counts mode, stored as whole-valued floats) or a probability (density
// mode). Keys are fixed-width binary strings, most significant classical bit
// first (classical bit 0 is the rightmost character). Consumers must treat
// the table as an unordered mapping.
type OutcomeTable map[string]float64

// Total returns the sum of all table values: the shot count in counts mode,
// total probability mass in density mode.
func (t OutcomeTable) Total() float64 {
	sum := 0.0
	for _, v := range t {
		sum += v
	}
	return sum
}

// MergeCounts aggregates repeated runs of the same experiment so results with
// higher shot counts can be assembled from several hardware submissions.
func MergeCounts(tables ...OutcomeTable) OutcomeTable {
	merged := make(OutcomeTable)
	for _, t := range tables {
		for key, v := range t {
			merged[key] += v
		}
	}
	return merged
}

// ExperimentResult is the outcome of one circuit within a job.
type ExperimentResult struct {
	Name      string
	Shots     int
	Mode      Mode
	Counts    OutcomeTable
	TimeTaken time.Duration
}

// Result is the complete record returned by Job.Result.
type Result struct {
	BackendName string
	JobID       string
	Results     []ExperimentResult
	TimeTaken   time.Duration
}

// Counts returns the outcome table for the named experiment.
func (r *Result) Counts(name string) (OutcomeTable, error) {
	for i := range r.Results {
		if r.Results[i].Name == name {
			return r.Results[i].Counts, nil
		}
	}
	return nil, fmt.Errorf("no experiment %q in result", name)
}
