// Package dist provides stochastic duration samplers for device service
// times and arrival processes. All samplers draw from a caller-supplied
// *rand.Rand so that determinism stays in the caller's hands.
package dist

import (
	"math"
	"math/rand"
)

// DurationSampler generates service durations in ticks.
type DurationSampler interface {
	// Sample returns a positive duration (>= 1 tick).
	Sample(rng *rand.Rand) int64
}

// GaussianSampler produces clamped Gaussian durations.
type GaussianSampler struct {
	Mean, StdDev float64
	Min, Max     int64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) int64 {
	if s.Min == s.Max {
		return maxTick(s.Min)
	}
	val := rng.NormFloat64()*s.StdDev + s.Mean
	clamped := math.Min(float64(s.Max), math.Max(float64(s.Min), val))
	return maxTick(int64(math.Round(clamped)))
}

// ExponentialSampler produces exponentially-distributed durations.
type ExponentialSampler struct {
	Mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) int64 {
	val := rng.ExpFloat64() * s.Mean
	return maxTick(int64(math.Round(val)))
}

// UniformSampler produces durations uniform on [Lo, Hi].
type UniformSampler struct {
	Lo, Hi float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) int64 {
	val := s.Lo + rng.Float64()*(s.Hi-s.Lo)
	return maxTick(int64(math.Round(val)))
}

// CompositeSampler sums several phases into one duration, e.g. a centrifuge
// run of spin-up, spin, and spin-down. Phases are sampled in declaration
// order; the order is part of the deterministic replay contract.
type CompositeSampler struct {
	Phases []DurationSampler
}

func (s *CompositeSampler) Sample(rng *rand.Rand) int64 {
	var total int64
	for _, p := range s.Phases {
		total += p.Sample(rng)
	}
	return maxTick(total)
}

func maxTick(v int64) int64 {
	if v < 1 {
		return 1
	}
	return v
}
