package sim

import (
	"hash/fnv"
	"math/rand"
)

// Shot sampling must be reproducible: two jobs with the same seed and the
// same experiment names produce identical counts tables. Each experiment gets
// its own rand.Rand so experiment order within a batch cannot perturb the
// draws of another experiment.

// deriveSeed mixes the master seed with the experiment name, so distinct
// experiments sample from decorrelated streams.
func deriveSeed(master int64, experiment string) int64 {
	h := fnv.New64a()
	h.Write([]byte(experiment))
	return master ^ int64(h.Sum64())
}

// NewShotRNG returns the deterministic sampler source for one experiment.
func NewShotRNG(master int64, experiment string) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(master, experiment)))
}
