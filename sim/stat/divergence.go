// Package stat provides comparison statistics between outcome distributions:
// vector angle, smoothed Kullback-Leibler divergence, and the discrete
// one-sample Kolmogorov-Smirnov test.
package stat

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/quac-sim/quac-sim/sim"
)

// VectorAngle returns the angle between two vectors in degrees. The cosine
// similarity is clipped to [-1, 1] before arccos to absorb floating-point
// overshoot. A zero-norm input yields NaN and a warning; callers test with
// math.IsNaN.
func VectorAngle(a, b []float64) float64 {
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		logrus.Warn("vector angle undefined for a zero vector")
		return math.NaN()
	}

	cos := floats.Dot(a, b) / (normA * normB)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// KLSmoothed returns the Kullback-Leibler divergence of q from p after
// epsilon smoothing: every zero bin of each distribution receives epsilon,
// paid for by subtracting epsilon*zeros/nonzeros from that distribution's
// nonzero bins, so each still sums to 1.
func KLSmoothed(p, q []float64, epsilon float64) float64 {
	sp := smooth(p, epsilon)
	sq := smooth(q, epsilon)

	div := 0.0
	for i := range sp {
		div += sp[i] * math.Log(sp[i]/sq[i])
	}
	return div
}

func smooth(dist []float64, epsilon float64) []float64 {
	nonzeros := 0
	for _, p := range dist {
		if p != 0 {
			nonzeros++
		}
	}
	zeros := len(dist) - nonzeros

	smoothed := make([]float64, len(dist))
	for i, p := range dist {
		if p == 0 {
			smoothed[i] = epsilon
		} else {
			smoothed[i] = p - float64(zeros)*epsilon/float64(nonzeros)
		}
	}
	return smoothed
}

// KSOneSample runs the discrete one-sample Kolmogorov-Smirnov test of the
// empirical distribution p against the reference q. It returns the maximum
// absolute CDF difference D and whether D < 1.36/sqrt(nSamples), the
// classical two-sided acceptance at ~5% significance.
func KSOneSample(p, q []float64, nSamples int) (float64, bool) {
	cutoff := 1.36 / math.Sqrt(float64(nSamples))

	maxDiff := 0.0
	cdfP, cdfQ := 0.0, 0.0
	for i := range p {
		cdfP += p[i]
		cdfQ += q[i]
		if diff := math.Abs(cdfP - cdfQ); diff > maxDiff {
			maxDiff = diff
		}
	}
	return maxDiff, maxDiff < cutoff
}

// TableToList expands an outcome table into a dense vector of length
// 2^width, indexed by the register bitstring read as a base-2 integer.
func TableToList(table sim.OutcomeTable, width int) ([]float64, error) {
	list := make([]float64, 1<<width)
	for key, v := range table {
		if len(key) != width {
			return nil, fmt.Errorf("key %q does not match register width %d", key, width)
		}
		index, err := strconv.ParseUint(key, 2, 64)
		if err != nil {
			return nil, fmt.Errorf("key %q is not a bitstring: %w", key, err)
		}
		list[index] = v
	}
	return list, nil
}

// TableToDist expands an outcome table into a normalized probability
// distribution, so counts-mode and density-mode tables compare directly.
func TableToDist(table sim.OutcomeTable, width int) ([]float64, error) {
	list, err := TableToList(table, width)
	if err != nil {
		return nil, err
	}
	total := floats.Sum(list)
	if total == 0 {
		return nil, fmt.Errorf("outcome table holds no mass")
	}
	floats.Scale(1/total, list)
	return list, nil
}
